package inference

import (
	"cmp"
	"context"
	"maps"
	"math"
	"slices"

	"github.com/gnames/gnpia/pkg/filter"
	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/report"
	"github.com/gnames/gnpia/pkg/score"
	"golang.org/x/sync/errgroup"
)

// Extractor is the Spectrum Extractor inference. It reports proteins
// greedily by score. A reported protein claims its spectra, so other
// proteins are rebuilt without them and can be reported only for
// peptides with unclaimed spectra.
type Extractor struct {
	*base
}

// NewExtractor creates Spectrum Extractor inference.
func NewExtractor(s Settings) *Extractor {
	return &Extractor{base: newBase(s)}
}

func (e *Extractor) Method() Method {
	return SpectrumExtractor
}

type extractorCandidate struct {
	protein *report.Protein
	pool    []*report.Peptide
	built   bool
}

// claims are the spectra and peptides of reported proteins. They are
// changed only while proteins are selected.
type claims struct {
	spectra  keySet
	peptides map[string]*report.Peptide
}

// Infer runs the rounds of rebuild and selection for every split of the
// evidence. A split holds the trees that share spectra.
func (e *Extractor) Infer(ctx context.Context, d Data) ([]*report.Protein, error) {
	e.setProgress(0)
	peps := e.filteredPeptides(d, false)

	specAccs := make(map[string]intermediate.IDSet)
	for _, list := range peps {
		for _, pep := range list {
			for _, s := range pep.Sets {
				accs, ok := specAccs[s.SpectrumID()]
				if !ok {
					accs = make(intermediate.IDSet)
					specAccs[s.SpectrumID()] = accs
				}
				for _, a := range s.Accessions() {
					accs.Add(a.ID)
				}
			}
		}
	}

	cl := &claims{
		spectra:  make(keySet),
		peptides: make(map[string]*report.Peptide),
	}
	progress := func() {
		if len(specAccs) > 0 {
			e.setProgress(float64(len(cl.spectra)) / float64(len(specAccs)) * 100)
		}
	}

	var res []*report.Protein
	for _, split := range e.splits(d, peps) {
		prots, err := e.inferSplit(ctx, d, split, peps, specAccs, cl, progress)
		if err != nil {
			return nil, err
		}
		res = append(res, prots...)
	}

	report.RankProteins(res)
	e.setProgress(Done)
	return res, nil
}

// splits joins trees that have peptides with common spectra and returns
// the groups with accessions and peptides of every split.
func (e *Extractor) splits(
	d Data,
	peps map[int64][]*report.Peptide,
) [][]int64 {
	parent := make(map[int64]int64)
	var find func(int64) int64
	find = func(id int64) int64 {
		p, ok := parent[id]
		if !ok || p == id {
			parent[id] = id
			return id
		}
		root := find(p)
		parent[id] = root
		return root
	}
	union := func(a, b int64) {
		ra, rb := find(a), find(b)
		switch {
		case ra < rb:
			parent[rb] = ra
		case rb < ra:
			parent[ra] = rb
		}
	}

	specTree := make(map[string]int64)
	for _, gid := range slices.Sorted(maps.Keys(peps)) {
		tree := d.Groups[gid].TreeID
		find(tree)
		for _, pep := range peps[gid] {
			for _, s := range pep.Sets {
				if other, ok := specTree[s.SpectrumID()]; ok {
					union(tree, other)
					continue
				}
				specTree[s.SpectrumID()] = tree
			}
		}
	}

	byRoot := make(map[int64][]int64)
	var roots []int64
	for _, gid := range d.Groups.IDs() {
		g := d.Groups[gid]
		if len(g.Accessions) == 0 {
			continue
		}
		if len(groupPeptides(d.Groups, gid, peps)) == 0 {
			continue
		}
		root := find(g.TreeID)
		if _, ok := byRoot[root]; !ok {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], gid)
	}
	slices.Sort(roots)

	res := make([][]int64, len(roots))
	for i, root := range roots {
		res[i] = byRoot[root]
	}
	return res
}

func (e *Extractor) inferSplit(
	ctx context.Context,
	d Data,
	gids []int64,
	peps map[int64][]*report.Peptide,
	specAccs map[string]intermediate.IDSet,
	cl *claims,
	progress func(),
) ([]*report.Protein, error) {
	cands := make([]*extractorCandidate, 0, len(gids))
	for _, gid := range gids {
		p := report.NewProtein(gid)
		for _, accID := range d.Groups[gid].Accessions.Sorted() {
			if a := d.Store.Accession(accID); a != nil {
				p.AddAccession(a)
			}
		}
		cands = append(cands, &extractorCandidate{
			protein: p,
			pool:    groupPeptides(d.Groups, gid, peps),
		})
	}

	protFilters := filter.ByLevel(e.Filters, filter.ProteinLevel)
	model := score.Lookup(score.ProteinScore)
	changed := make(intermediate.IDSet)
	var res []*report.Protein

	for {
		if err := e.rebuildAll(ctx, cands, changed, cl); err != nil {
			return nil, err
		}

		cands = slices.DeleteFunc(cands, func(c *extractorCandidate) bool {
			return c.protein.NrPeptides() == 0
		})
		slices.SortStableFunc(cands, func(a, b *extractorCandidate) int {
			if c := model.Compare(a.protein.Score, b.protein.Score); c != 0 {
				return c
			}
			return cmp.Compare(a.protein.ID, b.protein.ID)
		})

		changed = make(intermediate.IDSet)
		iterate := false
		var reportScore float64
		var hasReport bool

		for len(cands) > 0 {
			head := cands[0].protein
			if hasReport && !sameScore(head.Score, reportScore) {
				break
			}
			for i := 1; i < len(cands); {
				other := cands[i].protein
				if !sameScore(other.Score, head.Score) {
					break
				}
				if sameEvidence(head, other) {
					mergeAccessions(head, other)
					cands = slices.Delete(cands, i, i+1)
					continue
				}
				i++
			}
			cands = cands[1:]

			if !filter.SatisfiesAll(protFilters, head, 0) {
				continue
			}

			if newPeptides(head, cl) == 0 {
				attachSubset(res, head)
				continue
			}

			for spec := range head.SpectrumIDs() {
				cl.spectra[spec] = struct{}{}
				changed.AddAll(specAccs[spec])
			}
			for _, pep := range head.Peptides() {
				if _, ok := cl.peptides[pep.StringID]; !ok {
					cl.peptides[pep.StringID] = pep
				}
			}
			res = append(res, head)
			reportScore, hasReport = head.Score, true
			iterate = len(cands) > 0
			progress()
		}

		if !iterate {
			return res, nil
		}
	}
}

// rebuildAll rebuilds candidates that were never built or have changed
// accessions. Claims are read-only while it runs.
func (e *Extractor) rebuildAll(
	ctx context.Context,
	cands []*extractorCandidate,
	changed intermediate.IDSet,
	cl *claims,
) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.Jobs)
	for _, c := range cands {
		if c.built && !touches(c.protein, changed) {
			continue
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			e.rebuild(c, cl)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// rebuild fills the protein with peptides built from unclaimed spectra,
// and with claimed peptides as they were reported. Peptides that fail
// peptide filters are excluded and the rest is built again.
func (e *Extractor) rebuild(c *extractorCandidate, cl *claims) {
	c.built = true
	pepFilters := filter.ByLevel(e.Filters, filter.PeptideLevel)
	blacklist := make(keySet)

	for {
		peps := e.collect(c.pool, cl, blacklist)
		e.resolveShared(peps)

		iterate := false
		for _, pep := range peps {
			if !filter.SatisfiesAll(pepFilters, pep, 0) {
				blacklist[pep.StringID] = struct{}{}
				iterate = true
			}
		}
		if iterate {
			continue
		}

		c.protein.ClearPeptides()
		for _, pep := range peps {
			c.protein.AddPeptide(pep)
		}
		c.protein.Score = e.Scoring.ProteinScore(c.protein)
		return
	}
}

func (e *Extractor) collect(
	pool []*report.Peptide,
	cl *claims,
	blacklist keySet,
) []*report.Peptide {
	var res []*report.Peptide
	for _, pep := range pool {
		if _, ok := blacklist[pep.StringID]; ok {
			continue
		}
		if rp, ok := cl.peptides[pep.StringID]; ok {
			res = append(res, rp.WithSets(rp.Sets))
			continue
		}
		var sets []*report.PSMSet
		for _, s := range pep.Sets {
			if _, ok := cl.spectra[s.SpectrumID()]; !ok {
				sets = append(sets, s)
			}
		}
		if len(sets) > 0 {
			res = append(res, pep.WithSets(sets))
		}
	}
	slices.SortFunc(res, func(a, b *report.Peptide) int {
		return cmp.Compare(a.StringID, b.StringID)
	})
	return res
}

// resolveShared lets a spectrum found in several peptides score only in
// the peptide with its best score, or in the first one of the equally
// good peptides. Peptides must be sorted by string id.
func (e *Extractor) resolveShared(peps []*report.Peptide) {
	type holder struct {
		pep *report.Peptide
		set *report.PSMSet
	}
	model := score.Lookup(e.Scoring.ScoreName)
	bySpectrum := make(map[string][]holder)
	for _, pep := range peps {
		for _, s := range pep.Sets {
			id := s.SpectrumID()
			bySpectrum[id] = append(bySpectrum[id], holder{pep, s})
		}
	}

	for _, hs := range bySpectrum {
		if len(hs) < 2 {
			continue
		}
		best := hs[0]
		for _, h := range hs[1:] {
			if model.Better(h.set.ScoreOf(e.Scoring.ScoreName),
				best.set.ScoreOf(e.Scoring.ScoreName)) {
				best = h
			}
		}
		for _, h := range hs {
			if h.pep != best.pep {
				h.pep.SetNonScoring(h.set.Key)
			}
		}
	}
}

func touches(p *report.Protein, changed intermediate.IDSet) bool {
	for id := range p.AccessionIDs() {
		if changed.Has(id) {
			return true
		}
	}
	return false
}

func newPeptides(p *report.Protein, cl *claims) int {
	var res int
	for _, key := range p.PeptideKeys() {
		if _, ok := cl.peptides[key]; !ok {
			res++
		}
	}
	return res
}

// sameEvidence is true if both proteins have the same peptides and
// spectra.
func sameEvidence(a, b *report.Protein) bool {
	return keySet(a.PeptideKeySet()).equal(b.PeptideKeySet()) &&
		keySet(a.SpectrumIDs()).equal(b.SpectrumIDs())
}

func mergeAccessions(dst, src *report.Protein) {
	for _, a := range src.Accessions() {
		dst.AddAccession(a)
	}
}

// attachSubset makes the protein a subset of every reported protein
// that has all its peptides and spectra. With the same evidence as a
// reported protein or one of its subsets the accessions are merged
// instead.
func attachSubset(reported []*report.Protein, p *report.Protein) {
	peptides := keySet(p.PeptideKeySet())
	spectra := keySet(p.SpectrumIDs())
	for _, r := range reported {
		rSpectra := keySet(r.SpectrumIDs())
		if !keySet(r.PeptideKeySet()).containsAll(peptides) ||
			!rSpectra.containsAll(spectra) {
			continue
		}
		if len(rSpectra) == len(spectra) {
			if sameEvidence(r, p) {
				mergeAccessions(r, p)
				return
			}
			continue
		}
		merged := false
		for _, sub := range r.Subsets() {
			if sameEvidence(sub, p) {
				mergeAccessions(sub, p)
				merged = true
				break
			}
		}
		if !merged {
			r.AddSubset(p)
		}
	}
}

func sameScore(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}
