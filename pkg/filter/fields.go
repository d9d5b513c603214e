package filter

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/report"
)

// Level of the items a filter applies to.
type Level int

const (
	// PSMLevel filters apply to PSMs and PSM sets.
	PSMLevel Level = iota
	PeptideLevel
	ProteinLevel
)

func (l Level) String() string {
	switch l {
	case PSMLevel:
		return "psm"
	case PeptideLevel:
		return "peptide"
	case ProteinLevel:
		return "protein"
	}
	return "unknown"
}

// field extracts a value from the items of its level. Values are
// float64, string, []string or bool according to vtype.
type field struct {
	name    string
	level   Level
	vtype   ValueType
	psm     func(*report.PSM) any
	set     func(*report.PSMSet) any
	peptide func(*report.Peptide) any
	protein func(*report.Protein) any
}

const (
	psmScorePrefix     = "psm_score:"
	peptideScorePrefix = "peptide_score:"
)

var fields = map[string]*field{}

func register(f *field) {
	fields[f.name] = f
}

func accessionNames(accs []*intermediate.Accession) []string {
	res := make([]string, len(accs))
	for i, a := range accs {
		res[i] = a.Accession
	}
	return res
}

func fileList(ids []int64) []string {
	res := make([]string, len(ids))
	for i, id := range ids {
		res[i] = strconv.FormatInt(id, 10)
	}
	return res
}

func init() {
	psmNumber := func(name string, fn func(*report.PSM) float64) {
		register(&field{
			name:  name,
			level: PSMLevel,
			vtype: NumberValue,
			psm:   func(p *report.PSM) any { return fn(p) },
			set:   func(s *report.PSMSet) any { return fn(s.First()) },
		})
	}
	psmNumber("charge", func(p *report.PSM) float64 { return float64(p.Charge) })
	psmNumber("delta_mass", func(p *report.PSM) float64 { return p.DeltaMass })
	psmNumber("delta_ppm", func(p *report.PSM) float64 { return p.DeltaPPM() })
	psmNumber("mz", func(p *report.PSM) float64 { return p.MassToCharge })
	psmNumber("psm_missed_cleavages", func(p *report.PSM) float64 {
		return float64(p.MissedCleavages)
	})

	register(&field{
		name: "psm_rank", level: PSMLevel, vtype: NumberValue,
		psm: func(p *report.PSM) any { return float64(p.Rank) },
		set: func(s *report.PSMSet) any { return float64(s.Rank) },
	})
	register(&field{
		name: "psm_q_value", level: PSMLevel, vtype: NumberValue,
		psm: func(p *report.PSM) any { return math.NaN() },
		set: func(s *report.PSMSet) any { return s.QValue },
	})
	register(&field{
		name: "nr_accessions_per_psm", level: PSMLevel, vtype: NumberValue,
		psm: func(p *report.PSM) any { return float64(len(p.Accessions)) },
		set: func(s *report.PSMSet) any { return float64(len(s.Accessions())) },
	})
	register(&field{
		name: "nr_psms_per_psm_set", level: PSMLevel, vtype: NumberValue,
		psm: func(p *report.PSM) any { return 1.0 },
		set: func(s *report.PSMSet) any { return float64(len(s.PSMs)) },
	})
	register(&field{
		name: "psm_accessions", level: PSMLevel, vtype: ListValue,
		psm: func(p *report.PSM) any { return accessionNames(p.Accessions) },
		set: func(s *report.PSMSet) any { return accessionNames(s.Accessions()) },
	})
	register(&field{
		name: "psm_file_list", level: PSMLevel, vtype: ListValue,
		psm: func(p *report.PSM) any { return fileList([]int64{p.FileID}) },
		set: func(s *report.PSMSet) any { return fileList(s.FileIDs()) },
	})
	register(&field{
		name: "psm_sequence", level: PSMLevel, vtype: StringValue,
		psm: func(p *report.PSM) any { return p.Sequence },
		set: func(s *report.PSMSet) any { return s.Sequence() },
	})
	register(&field{
		name: "psm_source_id", level: PSMLevel, vtype: StringValue,
		psm: func(p *report.PSM) any { return p.SourceID },
		set: func(s *report.PSMSet) any { return s.SourceIDs() },
	})
	register(&field{
		name: "psm_unique", level: PSMLevel, vtype: BoolValue,
		psm: func(p *report.PSM) any { return len(p.Accessions) == 1 },
		set: func(s *report.PSMSet) any { return len(s.Accessions()) == 1 },
	})
	register(&field{
		name: "psm_decoy", level: PSMLevel, vtype: BoolValue,
		psm: func(p *report.PSM) any { return p.Decoy },
		set: func(s *report.PSMSet) any { return s.Decoy },
	})

	register(&field{
		name: "peptide_accessions", level: PeptideLevel, vtype: ListValue,
		peptide: func(p *report.Peptide) any { return accessionNames(p.Accessions) },
	})
	register(&field{
		name: "peptide_sequence", level: PeptideLevel, vtype: StringValue,
		peptide: func(p *report.Peptide) any { return p.Sequence },
	})
	register(&field{
		name: "peptide_unique", level: PeptideLevel, vtype: BoolValue,
		peptide: func(p *report.Peptide) any { return p.Unique() },
	})
	register(&field{
		name: "nr_psms_per_peptide", level: PeptideLevel, vtype: NumberValue,
		peptide: func(p *report.Peptide) any { return float64(p.NrPSMs()) },
	})
	register(&field{
		name: "nr_spectra_per_peptide", level: PeptideLevel, vtype: NumberValue,
		peptide: func(p *report.Peptide) any { return float64(p.NrSpectra()) },
	})

	register(&field{
		name: "protein_accessions", level: ProteinLevel, vtype: ListValue,
		protein: func(p *report.Protein) any { return p.AccessionNames() },
	})
	register(&field{
		name: "protein_description", level: ProteinLevel, vtype: StringValue,
		protein: func(p *report.Protein) any { return p.Description() },
	})
	register(&field{
		name: "protein_score", level: ProteinLevel, vtype: NumberValue,
		protein: func(p *report.Protein) any { return p.Score },
	})
	protNumber := func(name string, fn func(*report.Protein) int) {
		register(&field{
			name: name, level: ProteinLevel, vtype: NumberValue,
			protein: func(p *report.Protein) any { return float64(fn(p)) },
		})
	}
	protNumber("nr_peptides_per_protein", (*report.Protein).NrPeptides)
	protNumber("nr_psms_per_protein", (*report.Protein).NrPSMs)
	protNumber("nr_spectra_per_protein", (*report.Protein).NrSpectra)
	protNumber("nr_unique_peptides_per_protein", (*report.Protein).NrUniquePeptides)
}

// lookupField finds a registered field or builds a score field.
func lookupField(name string) (*field, bool) {
	if f, ok := fields[name]; ok {
		return f, true
	}
	switch {
	case strings.HasPrefix(name, psmScorePrefix):
		scoreName := strings.TrimPrefix(name, psmScorePrefix)
		if scoreName == "" {
			return nil, false
		}
		return &field{
			name: name, level: PSMLevel, vtype: NumberValue,
			psm: func(p *report.PSM) any { return p.ScoreOf(scoreName) },
			set: func(s *report.PSMSet) any { return s.ScoreOf(scoreName) },
		}, true
	case strings.HasPrefix(name, peptideScorePrefix):
		scoreName := strings.TrimPrefix(name, peptideScorePrefix)
		if scoreName == "" {
			return nil, false
		}
		return &field{
			name: name, level: PeptideLevel, vtype: NumberValue,
			peptide: func(p *report.Peptide) any { return p.ScoreOf(scoreName) },
		}, true
	}
	return nil, false
}

// Names returns sorted names of the registered filter fields. Score
// fields are given as "psm_score:<score>" and "peptide_score:<score>".
func Names() []string {
	res := slices.Sorted(maps.Keys(fields))
	return append(res, psmScorePrefix+"<score>", peptideScorePrefix+"<score>")
}
