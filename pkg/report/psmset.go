// Package report wraps the compiled evidence into the items that are
// filtered, scored and reported: PSMs of single files, PSM sets that
// merge repeated identifications, peptides and proteins.
package report

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/score"
)

// PSM is a PSM of one input file with its rank in that file.
type PSM struct {
	*intermediate.PSM
	Accessions []*intermediate.Accession
	// Rank in the input file by the ranking score, 0 if not ranked.
	Rank int
	// SpectrumID identifies the spectrum across files.
	SpectrumID string
}

// ScoreOf returns the named score or NaN.
func (p *PSM) ScoreOf(name string) float64 {
	if v, ok := p.PSM.Score(name); ok {
		return v
	}
	return math.NaN()
}

// PSMSet groups PSMs that share an identification key.
type PSMSet struct {
	Key  string
	PSMs []*PSM
	// Decoy is true if every PSM of the set is a decoy.
	Decoy bool

	FDR      float64
	QValue   float64
	FDRScore float64
	FDRGood  bool
	Rank     int
}

func newPSMSet(key string) *PSMSet {
	return &PSMSet{
		Key:      key,
		Decoy:    true,
		FDR:      math.NaN(),
		QValue:   math.NaN(),
		FDRScore: math.NaN(),
	}
}

func (s *PSMSet) add(p *PSM) {
	s.PSMs = append(s.PSMs, p)
	s.Decoy = s.Decoy && p.Decoy
}

// Subset returns the set of the given PSMs, which must be PSMs of s.
// The set itself is returned if all its PSMs are given, otherwise the
// new set has no FDR values.
func (s *PSMSet) Subset(psms []*PSM) *PSMSet {
	if len(psms) == len(s.PSMs) {
		return s
	}
	res := newPSMSet(s.Key)
	for _, p := range psms {
		res.add(p)
	}
	return res
}

// First returns the PSM with the smallest id.
func (s *PSMSet) First() *PSM {
	return s.PSMs[0]
}

func (s *PSMSet) Sequence() string {
	return s.First().Sequence
}

func (s *PSMSet) PeptideID() int64 {
	return s.First().PeptideID
}

// SpectrumID identifies the spectrum of the set.
func (s *PSMSet) SpectrumID() string {
	return s.First().SpectrumID
}

func (s *PSMSet) PeptideStringID(considerModifications bool) string {
	return s.First().PeptideStringID(considerModifications)
}

// ScoreOf returns the best value of the named score among the PSMs, or
// one of the scores computed for the set itself.
func (s *PSMSet) ScoreOf(name string) float64 {
	switch name {
	case score.PSMCombinedFDRScore, score.PSMFDRScore:
		return s.FDRScore
	case score.PSMQValue:
		return s.QValue
	}
	m := score.Lookup(name)
	res := math.NaN()
	for _, p := range s.PSMs {
		if v := p.ScoreOf(name); m.Better(v, res) {
			res = v
		}
	}
	return res
}

// Accessions returns the accessions of all PSMs sorted by id.
func (s *PSMSet) Accessions() []*intermediate.Accession {
	if len(s.PSMs) == 1 {
		return s.First().Accessions
	}
	seen := make(intermediate.IDSet)
	var res []*intermediate.Accession
	for _, p := range s.PSMs {
		for _, a := range p.Accessions {
			if !seen.Has(a.ID) {
				seen.Add(a.ID)
				res = append(res, a)
			}
		}
	}
	slices.SortFunc(res, byAccessionID)
	return res
}

// FileIDs returns sorted ids of the files the PSMs come from.
func (s *PSMSet) FileIDs() []int64 {
	ids := make(intermediate.IDSet)
	for _, p := range s.PSMs {
		ids.Add(p.FileID)
	}
	return ids.Sorted()
}

// SourceIDs returns distinct source ids of the PSMs.
func (s *PSMSet) SourceIDs() string {
	var res []string
	for _, p := range s.PSMs {
		if p.SourceID != "" && !slices.Contains(res, p.SourceID) {
			res = append(res, p.SourceID)
		}
	}
	return strings.Join(res, ";")
}

func byAccessionID(a, b *intermediate.Accession) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// PSMSetMap holds all PSMs of a compilation and their PSM sets.
type PSMSetMap struct {
	Settings intermediate.KeySettings

	psms      []*PSM
	sets      map[string]*PSMSet
	keys      []string
	byPeptide map[int64][]*PSMSet
}

// BuildPSMSets wraps the PSMs of the store and groups them by their
// identification keys. If createSets is false every file keeps its own
// sets.
func BuildPSMSets(
	store *intermediate.Store,
	ks intermediate.KeySettings,
	createSets bool,
) *PSMSetMap {
	if !createSets {
		ks |= intermediate.KeyFileID
	}
	ks = ks.NoRedundant()

	res := &PSMSetMap{
		Settings:  ks,
		sets:      make(map[string]*PSMSet),
		byPeptide: make(map[int64][]*PSMSet),
	}

	for _, ip := range store.PSMs() {
		p := &PSM{
			PSM:        ip,
			SpectrumID: ip.SpectrumKey(ks),
		}
		for _, accID := range ip.AccessionIDs {
			if a := store.Accession(accID); a != nil {
				p.Accessions = append(p.Accessions, a)
			}
		}
		slices.SortFunc(p.Accessions, byAccessionID)
		res.psms = append(res.psms, p)

		key := ip.IdentificationKey(ks)
		set, ok := res.sets[key]
		if !ok {
			set = newPSMSet(key)
			res.sets[key] = set
			res.keys = append(res.keys, key)
		}
		set.add(p)
	}

	slices.Sort(res.keys)
	for _, key := range res.keys {
		set := res.sets[key]
		peps := make(intermediate.IDSet)
		for _, p := range set.PSMs {
			peps.Add(p.PeptideID)
		}
		for pepID := range peps {
			res.byPeptide[pepID] = append(res.byPeptide[pepID], set)
		}
	}
	return res
}

// PSM returns a PSM by id or nil.
func (m *PSMSetMap) PSM(id int64) *PSM {
	if id < 1 || int(id) > len(m.psms) {
		return nil
	}
	return m.psms[id-1]
}

// PSMs returns all PSMs in id order.
func (m *PSMSetMap) PSMs() []*PSM {
	return m.psms
}

// Set returns the PSM set with the identification key or nil.
func (m *PSMSetMap) Set(key string) *PSMSet {
	return m.sets[key]
}

// Sets returns all PSM sets sorted by key.
func (m *PSMSetMap) Sets() []*PSMSet {
	res := make([]*PSMSet, len(m.keys))
	for i, key := range m.keys {
		res[i] = m.sets[key]
	}
	return res
}

// ForPeptide returns PSM sets of the peptide sorted by key.
func (m *PSMSetMap) ForPeptide(pepID int64) []*PSMSet {
	return m.byPeptide[pepID]
}

// HasDecoys is true if at least one PSM set is a decoy.
func (m *PSMSetMap) HasDecoys() bool {
	for _, s := range m.sets {
		if s.Decoy {
			return true
		}
	}
	return false
}

// MainScore returns the score reported for most PSMs. Scores known to
// gnpia win over unknown ones, ties are resolved by name. Returns an
// empty string if PSMs have no scores.
func (m *PSMSetMap) MainScore() string {
	counts := make(map[string]int)
	for _, p := range m.psms {
		for name := range p.Scores {
			counts[name]++
		}
	}
	var res string
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		if res == "" {
			res = name
			continue
		}
		known, resKnown := score.Lookup(name).Known, score.Lookup(res).Known
		switch {
		case known && !resKnown:
			res = name
		case known == resKnown && counts[name] > counts[res]:
			res = name
		}
	}
	return res
}
