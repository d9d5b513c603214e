package report

import (
	"math"
	"slices"

	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/score"
)

// Peptide aggregates the qualifying PSM sets of one peptide. With
// modifications considered, every modification variant of a sequence
// is a separate Peptide.
type Peptide struct {
	StringID   string
	PeptideID  int64
	Sequence   string
	Accessions []*intermediate.Accession
	Sets       []*PSMSet

	nonScoring map[string]struct{}
}

// NewPeptide creates an empty report peptide.
func NewPeptide(
	stringID string,
	pep *intermediate.Peptide,
	accessions []*intermediate.Accession,
) *Peptide {
	return &Peptide{
		StringID:   stringID,
		PeptideID:  pep.ID,
		Sequence:   pep.Sequence,
		Accessions: accessions,
	}
}

// WithSets returns a copy of the peptide with the given PSM sets and no
// non-scoring marks.
func (p *Peptide) WithSets(sets []*PSMSet) *Peptide {
	return &Peptide{
		StringID:   p.StringID,
		PeptideID:  p.PeptideID,
		Sequence:   p.Sequence,
		Accessions: p.Accessions,
		Sets:       slices.Clone(sets),
	}
}

// AddSet adds a PSM set unless it is already there.
func (p *Peptide) AddSet(s *PSMSet) {
	if slices.Contains(p.Sets, s) {
		return
	}
	p.Sets = append(p.Sets, s)
}

// Unique is true if the peptide maps to one accession only.
func (p *Peptide) Unique() bool {
	return len(p.Accessions) == 1
}

// NrPSMs counts PSMs of all sets.
func (p *Peptide) NrPSMs() int {
	var res int
	for _, s := range p.Sets {
		res += len(s.PSMs)
	}
	return res
}

// SpectrumIDs returns distinct spectra of the peptide, sorted.
func (p *Peptide) SpectrumIDs() []string {
	res := make([]string, 0, len(p.Sets))
	for _, s := range p.Sets {
		if id := s.SpectrumID(); !slices.Contains(res, id) {
			res = append(res, id)
		}
	}
	slices.Sort(res)
	return res
}

func (p *Peptide) NrSpectra() int {
	return len(p.SpectrumIDs())
}

// SetNonScoring excludes the PSM set from scoring of this peptide.
func (p *Peptide) SetNonScoring(key string) {
	if p.nonScoring == nil {
		p.nonScoring = make(map[string]struct{})
	}
	p.nonScoring[key] = struct{}{}
}

// ClearNonScoring makes all PSM sets count for scoring again.
func (p *Peptide) ClearNonScoring() {
	p.nonScoring = nil
}

// IsScoring is true if the PSM set counts for scoring.
func (p *Peptide) IsScoring(key string) bool {
	_, ok := p.nonScoring[key]
	return !ok
}

// ScoringSets returns the PSM sets that count for scoring.
func (p *Peptide) ScoringSets() []*PSMSet {
	if len(p.nonScoring) == 0 {
		return p.Sets
	}
	res := make([]*PSMSet, 0, len(p.Sets))
	for _, s := range p.Sets {
		if p.IsScoring(s.Key) {
			res = append(res, s)
		}
	}
	return res
}

// BestSet returns the scoring PSM set with the best value of the score.
func (p *Peptide) BestSet(name string) *PSMSet {
	m := score.Lookup(name)
	var res *PSMSet
	best := math.NaN()
	for _, s := range p.ScoringSets() {
		if v := s.ScoreOf(name); res == nil || m.Better(v, best) {
			res, best = s, v
		}
	}
	return res
}

// ScoreOf returns the best value of the score among scoring PSM sets,
// or NaN.
func (p *Peptide) ScoreOf(name string) float64 {
	s := p.BestSet(name)
	if s == nil {
		return math.NaN()
	}
	return s.ScoreOf(name)
}
