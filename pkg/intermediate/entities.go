package intermediate

import (
	"slices"
)

// protonMass is used to get the neutral precursor mass from m/z.
const protonMass = 1.007276466812

// InputFile is a search engine result file that contributed evidence.
type InputFile struct {
	ID     int64
	Name   string
	Path   string
	Format string
}

// Accession is a protein identifier.
type Accession struct {
	ID        int64
	Accession string
	// Sequence of the protein, empty if no search engine reported it.
	Sequence string
	// FileIDs are the input files that reported the accession.
	FileIDs IDSet
	// Descriptions keeps protein description per input file.
	Descriptions map[int64]string
	// DBRefs are search databases the accession was found in.
	DBRefs []string
	// GroupID is the owning Group, 0 until the graph is built.
	GroupID int64
}

// Description returns the description reported by the file with the
// smallest id.
func (a *Accession) Description() string {
	if len(a.Descriptions) == 0 {
		return ""
	}
	var fileID int64
	for id := range a.Descriptions {
		if fileID == 0 || id < fileID {
			fileID = id
		}
	}
	return a.Descriptions[fileID]
}

// Occurrence is a position of a peptide in a protein.
type Occurrence struct {
	AccessionID int64
	Start       int
	Stop        int
}

// Peptide is a unique amino acid sequence, modifications are ignored.
type Peptide struct {
	ID          int64
	Sequence    string
	PSMIDs      []int64
	Occurrences []Occurrence
	// GroupID is the owning Group, 0 until the graph is built.
	GroupID int64
}

// Modification of one residue of a peptide.
type Modification struct {
	// Position is 1-based, 0 is N-terminus, len(sequence)+1 is C-terminus.
	Position    int
	Mass        float64
	Residue     string
	Description string
}

// PSM is a peptide spectrum match.
type PSM struct {
	ID              int64
	FileID          int64
	SourceID        string
	SpectrumTitle   string
	Sequence        string
	Charge          int
	MassToCharge    float64
	DeltaMass       float64
	RetentionTime   *float64
	MissedCleavages int
	Decoy           bool
	Modifications   []Modification
	Scores          map[string]float64
	// Protocol names the identification protocol (search engine run).
	Protocol     string
	PeptideID    int64
	AccessionIDs []int64
}

// Score returns the named score and whether the PSM has it.
func (p *PSM) Score(name string) (float64, bool) {
	v, ok := p.Scores[name]
	return v, ok
}

// DeltaPPM returns the precursor mass error in parts per million.
func (p *PSM) DeltaPPM() float64 {
	if p.Charge == 0 {
		return 0
	}
	c := float64(p.Charge)
	mass := p.MassToCharge*c - c*protonMass
	if mass == 0 {
		return 0
	}
	return p.DeltaMass / mass * 1e6
}

// SortModifications orders modifications by position.
func (p *PSM) SortModifications() {
	slices.SortStableFunc(p.Modifications, func(a, b Modification) int {
		return a.Position - b.Position
	})
}
