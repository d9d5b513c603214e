package report

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/gnames/gnpia/pkg/intermediate"
)

// Protein is a reported protein: accessions that can not be told apart
// by the evidence, the peptides explaining them and proteins whose
// evidence is a subset of this one.
type Protein struct {
	ID    int64
	Score float64
	Rank  int

	accessions map[int64]*intermediate.Accession
	peptides   map[string]*Peptide
	subsets    []*Protein
}

// NewProtein creates an empty protein with a NaN score.
func NewProtein(id int64) *Protein {
	return &Protein{
		ID:         id,
		Score:      math.NaN(),
		accessions: make(map[int64]*intermediate.Accession),
		peptides:   make(map[string]*Peptide),
	}
}

func (p *Protein) AddAccession(a *intermediate.Accession) {
	p.accessions[a.ID] = a
}

// AddPeptide adds the peptide, replacing one with the same string id.
func (p *Protein) AddPeptide(pep *Peptide) {
	p.peptides[pep.StringID] = pep
}

func (p *Protein) RemovePeptide(stringID string) {
	delete(p.peptides, stringID)
}

// ClearPeptides removes all peptides.
func (p *Protein) ClearPeptides() {
	clear(p.peptides)
}

// AddSubset attaches a protein explained by a subset of the evidence.
func (p *Protein) AddSubset(sub *Protein) {
	if sub == p || slices.Contains(p.subsets, sub) {
		return
	}
	p.subsets = append(p.subsets, sub)
}

func (p *Protein) Subsets() []*Protein {
	return p.subsets
}

// Accessions returns accessions sorted by their accession strings.
func (p *Protein) Accessions() []*intermediate.Accession {
	res := slices.Collect(maps.Values(p.accessions))
	slices.SortFunc(res, func(a, b *intermediate.Accession) int {
		return strings.Compare(a.Accession, b.Accession)
	})
	return res
}

// AccessionNames returns sorted accession strings.
func (p *Protein) AccessionNames() []string {
	accs := p.Accessions()
	res := make([]string, len(accs))
	for i, a := range accs {
		res[i] = a.Accession
	}
	return res
}

func (p *Protein) AccessionIDs() intermediate.IDSet {
	res := make(intermediate.IDSet, len(p.accessions))
	for id := range p.accessions {
		res.Add(id)
	}
	return res
}

// Description of the first accession that has one.
func (p *Protein) Description() string {
	for _, a := range p.Accessions() {
		if d := a.Description(); d != "" {
			return d
		}
	}
	return ""
}

// Peptides returns peptides sorted by string id.
func (p *Protein) Peptides() []*Peptide {
	res := make([]*Peptide, 0, len(p.peptides))
	for _, k := range p.PeptideKeys() {
		res = append(res, p.peptides[k])
	}
	return res
}

// Peptide returns the peptide with the string id or nil.
func (p *Protein) Peptide(stringID string) *Peptide {
	return p.peptides[stringID]
}

// PeptideKeys returns sorted peptide string ids.
func (p *Protein) PeptideKeys() []string {
	return slices.Sorted(maps.Keys(p.peptides))
}

// PeptideKeySet returns the string ids of the peptides as a set.
func (p *Protein) PeptideKeySet() map[string]struct{} {
	res := make(map[string]struct{}, len(p.peptides))
	for k := range p.peptides {
		res[k] = struct{}{}
	}
	return res
}

func (p *Protein) NrPeptides() int {
	return len(p.peptides)
}

func (p *Protein) NrUniquePeptides() int {
	var res int
	for _, pep := range p.peptides {
		if pep.Unique() {
			res++
		}
	}
	return res
}

// NrPSMs counts distinct PSMs of all peptides.
func (p *Protein) NrPSMs() int {
	ids := make(intermediate.IDSet)
	for _, pep := range p.peptides {
		for _, s := range pep.Sets {
			for _, psm := range s.PSMs {
				ids.Add(psm.ID)
			}
		}
	}
	return len(ids)
}

// SpectrumIDs returns the set of spectra of all peptides.
func (p *Protein) SpectrumIDs() map[string]struct{} {
	res := make(map[string]struct{})
	for _, pep := range p.peptides {
		for _, s := range pep.Sets {
			res[s.SpectrumID()] = struct{}{}
		}
	}
	return res
}

func (p *Protein) NrSpectra() int {
	return len(p.SpectrumIDs())
}

// Decoy is true if every PSM set of the protein is a decoy.
func (p *Protein) Decoy() bool {
	if len(p.peptides) == 0 {
		return false
	}
	for _, pep := range p.peptides {
		for _, s := range pep.Sets {
			if !s.Decoy {
				return false
			}
		}
	}
	return true
}
