package report

// Row is a flat copy of a reported protein. It does not reference the
// intermediate structure, so rows can be cached and written after the
// structure is gone. Descriptions are aligned with Accessions.
type Row struct {
	Rank             int
	Score            float64
	Accessions       []string
	Descriptions     []string
	Description      string
	Decoy            bool
	NrPeptides       int
	NrUniquePeptides int
	NrPSMs           int
	NrSpectra        int
	Peptides         []PeptideRow
	Subsets          []SubsetRow
}

// PeptideRow is a peptide of a reported protein.
type PeptideRow struct {
	StringID string
	Sequence string
	NrPSMs   int
}

// SubsetRow is a protein explained by a subset of the evidence of a
// reported protein.
type SubsetRow struct {
	Accessions []string
	Score      float64
}

// Row returns the snapshot of the protein.
func (p *Protein) Row() Row {
	res := Row{
		Rank:             p.Rank,
		Score:            p.Score,
		Accessions:       p.AccessionNames(),
		Description:      p.Description(),
		Decoy:            p.Decoy(),
		NrPeptides:       p.NrPeptides(),
		NrUniquePeptides: p.NrUniquePeptides(),
		NrPSMs:           p.NrPSMs(),
		NrSpectra:        p.NrSpectra(),
	}
	for _, a := range p.Accessions() {
		res.Descriptions = append(res.Descriptions, a.Description())
	}
	for _, pep := range p.Peptides() {
		res.Peptides = append(res.Peptides, PeptideRow{
			StringID: pep.StringID,
			Sequence: pep.Sequence,
			NrPSMs:   pep.NrPSMs(),
		})
	}
	for _, sub := range p.Subsets() {
		res.Subsets = append(res.Subsets, SubsetRow{
			Accessions: sub.AccessionNames(),
			Score:      sub.Score,
		})
	}
	return res
}

// Rows converts proteins to rows keeping their order.
func Rows(proteins []*Protein) []Row {
	res := make([]Row, len(proteins))
	for i, p := range proteins {
		res[i] = p.Row()
	}
	return res
}
