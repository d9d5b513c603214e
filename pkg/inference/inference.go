// Package inference decides which proteins are reported for the
// evidence compiled into the Group graph. All methods share filtering
// of PSMs, PSM sets and peptides, and differ in how they choose the
// proteins that explain the remaining peptides.
package inference

import (
	"cmp"
	"context"
	"maps"
	"math"
	"slices"
	"sync/atomic"

	"github.com/gnames/gnpia/pkg/anomaly"
	"github.com/gnames/gnpia/pkg/filter"
	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/report"
	"github.com/gnames/gnpia/pkg/scoring"
)

// Method names an inference strategy.
type Method string

const (
	OccamsRazor       Method = "occams_razor"
	SpectrumExtractor Method = "spectrum_extractor"
	ReportAll         Method = "report_all"
)

// Methods lists all inference methods.
var Methods = []Method{OccamsRazor, SpectrumExtractor, ReportAll}

// Done is the progress of a finished inference.
const Done = 101.0

// Data is the compiled evidence of one run.
type Data struct {
	Store  *intermediate.Store
	Groups intermediate.GroupMap
	Sets   *report.PSMSetMap
}

// Engine infers reported proteins. Engines are used for one inference
// at a time.
type Engine interface {
	Method() Method
	// Infer returns reported proteins ranked by score.
	Infer(ctx context.Context, d Data) ([]*report.Protein, error)
	// Progress is a percentage of the work done, or Done.
	Progress() float64
}

// Settings are shared by all inference methods.
type Settings struct {
	Filters               []*filter.Filter
	Scoring               *scoring.Scoring
	ConsiderModifications bool
	Jobs                  int
	Anomalies             *anomaly.Collector
}

type base struct {
	Settings
	progress atomic.Uint64
}

func newBase(s Settings) *base {
	if s.Jobs <= 0 {
		s.Jobs = 1
	}
	return &base{Settings: s}
}

func (b *base) Progress() float64 {
	return math.Float64frombits(b.progress.Load())
}

func (b *base) setProgress(v float64) {
	b.progress.Store(math.Float64bits(v))
}

// filteredPeptides builds report peptides of every group out of the PSMs
// and PSM sets that pass the PSM level filters. If withPeptideFilters is
// true, peptides that fail peptide filters are dropped as well. Groups
// without qualifying peptides are absent from the result.
func (b *base) filteredPeptides(
	d Data,
	withPeptideFilters bool,
) map[int64][]*report.Peptide {
	psmFilters := filter.ByLevel(b.Filters, filter.PSMLevel)
	var pepFilters []*filter.Filter
	if withPeptideFilters {
		pepFilters = filter.ByLevel(b.Filters, filter.PeptideLevel)
	}

	res := make(map[int64][]*report.Peptide)
	for _, gid := range d.Groups.IDs() {
		var peps []*report.Peptide
		for _, pepID := range d.Groups[gid].Peptides.Sorted() {
			pep := d.Store.Peptide(pepID)
			if pep == nil {
				b.Anomalies.Add(anomaly.MissingPeptide,
					"peptide %d of group %d does not exist", pepID, gid)
				continue
			}
			for _, rp := range b.reportPeptides(d, pep, psmFilters) {
				if filter.SatisfiesAll(pepFilters, rp, 0) {
					peps = append(peps, rp)
				}
			}
		}
		if len(peps) > 0 {
			res[gid] = peps
		}
	}
	return res
}

// reportPeptides splits the PSMs of a peptide by peptide string id and
// sorts those passing the filters into their PSM sets. A set keeps its
// FDR values only if all of its PSMs pass.
func (b *base) reportPeptides(
	d Data,
	pep *intermediate.Peptide,
	psmFilters []*filter.Filter,
) []*report.Peptide {
	type passed struct {
		set  *report.PSMSet
		psms []*report.PSM
	}
	byString := make(map[string]map[string]*passed)
	var keys []string

	for _, psmID := range pep.PSMIDs {
		psm := d.Sets.PSM(psmID)
		if psm == nil {
			b.Anomalies.Add(anomaly.MissingReportPSM,
				"PSM %d of peptide %s has no report PSM", psmID, pep.Sequence)
			continue
		}
		if !filter.SatisfiesAll(psmFilters, psm, 0) {
			continue
		}
		setKey := psm.IdentificationKey(d.Sets.Settings)
		set := d.Sets.Set(setKey)
		if set == nil {
			b.Anomalies.Add(anomaly.MissingPSMSet,
				"PSM %d has no PSM set %s", psmID, setKey)
			continue
		}

		strID := psm.PeptideStringID(b.ConsiderModifications)
		sets, ok := byString[strID]
		if !ok {
			sets = make(map[string]*passed)
			byString[strID] = sets
			keys = append(keys, strID)
		}
		ps, ok := sets[setKey]
		if !ok {
			ps = &passed{set: set}
			sets[setKey] = ps
		}
		ps.psms = append(ps.psms, psm)
	}

	slices.Sort(keys)
	var res []*report.Peptide
	for _, strID := range keys {
		var rp *report.Peptide
		sets := byString[strID]
		for _, setKey := range slices.Sorted(maps.Keys(sets)) {
			ps := sets[setKey]
			set := ps.set.Subset(ps.psms)
			if !filter.SatisfiesAll(psmFilters, set, 0) {
				continue
			}
			if rp == nil {
				rp = report.NewPeptide(strID, pep, nil)
			}
			rp.AddSet(set)
		}
		if rp == nil {
			continue
		}
		rp.Accessions = setAccessions(rp.Sets)
		res = append(res, rp)
	}
	return res
}

// groupPeptides returns the filtered peptides of the group and of all
// its descendants with peptides.
func groupPeptides(
	groups intermediate.GroupMap,
	gid int64,
	peps map[int64][]*report.Peptide,
) []*report.Peptide {
	res := slices.Clone(peps[gid])
	for _, child := range groups.PeptideChildren(gid) {
		res = append(res, peps[child]...)
	}
	return res
}

// createProtein assembles the protein of a group. Accessions come from
// the group and its same-set groups, subset proteins are created for the
// subGroups of the group unless they are already in built.
func (b *base) createProtein(
	d Data,
	gid int64,
	peps map[int64][]*report.Peptide,
	sameSets map[int64][]int64,
	subGroups map[int64][]int64,
	built map[int64]*report.Protein,
) *report.Protein {
	if p, ok := built[gid]; ok {
		return p
	}

	p := report.NewProtein(gid)
	for _, id := range append([]int64{gid}, sameSets[gid]...) {
		for _, accID := range d.Groups[id].Accessions.Sorted() {
			if a := d.Store.Accession(accID); a != nil {
				p.AddAccession(a)
			}
		}
	}
	for _, pep := range groupPeptides(d.Groups, gid, peps) {
		p.AddPeptide(pep)
	}
	p.Score = b.Scoring.ProteinScore(p)
	if built != nil {
		built[gid] = p
	}

	for _, sub := range subGroups[gid] {
		p.AddSubset(b.createProtein(d, sub, peps, sameSets, subGroups, built))
	}
	return p
}

func setAccessions(sets []*report.PSMSet) []*intermediate.Accession {
	seen := make(intermediate.IDSet)
	var res []*intermediate.Accession
	for _, s := range sets {
		for _, a := range s.Accessions() {
			if !seen.Has(a.ID) {
				seen.Add(a.ID)
				res = append(res, a)
			}
		}
	}
	slices.SortFunc(res, func(a, b *intermediate.Accession) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return res
}

// keySet is a set of peptide string ids or spectrum ids.
type keySet map[string]struct{}

func (s keySet) equal(o keySet) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}

func (s keySet) intersection(o keySet) int {
	if len(o) < len(s) {
		s, o = o, s
	}
	var res int
	for k := range s {
		if _, ok := o[k]; ok {
			res++
		}
	}
	return res
}

func (s keySet) containsAll(o keySet) bool {
	if len(o) > len(s) {
		return false
	}
	for k := range o {
		if _, ok := s[k]; !ok {
			return false
		}
	}
	return true
}

// signature is a canonical string of the set.
func (s keySet) signature() string {
	keys := slices.Sorted(maps.Keys(s))
	var n int
	for _, k := range keys {
		n += len(k) + 1
	}
	buf := make([]byte, 0, n)
	for _, k := range keys {
		buf = append(buf, k...)
		buf = append(buf, 0)
	}
	return string(buf)
}
