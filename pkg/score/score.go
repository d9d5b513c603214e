// Package score knows the direction of named scores and compares score
// values accordingly.
package score

import (
	"math"
	"strings"
	"unicode"
)

// Names of scores computed by gnpia itself.
const (
	PSMCombinedFDRScore = "psm_combined_fdr_score"
	PSMFDRScore         = "psm_fdr_score"
	PSMQValue           = "psm_q_value"
	PeptideScore        = "peptide_score"
	ProteinScore        = "protein_score"
)

// Model describes a named score.
type Model struct {
	// Name is the short name of the score, e.g. "mascot_score".
	Name string
	// Description is the human readable name.
	Description  string
	HigherBetter bool
	// Known is false for scores that are not in the registry. Such scores
	// are treated as higher-is-better.
	Known bool
}

var registry = map[string]Model{}

// cvAliases maps search engine vocabulary names to short names.
var cvAliases = map[string]string{
	"mascot:score":             "mascot_score",
	"mascot:expectation value": "mascot_expect",
	"sequest:xcorr":            "sequest_xcorr",
	"sequest:probability":      "sequest_probability",
	"sequest:spscore":          "sequest_spscore",
	"x!tandem:expect":          "xtandem_expect",
	"x!tandem:hyperscore":      "xtandem_hyperscore",
	"ms-gf:rawscore":           "msgf_rawscore",
	"ms-gf:denovoscore":        "msgf_denovoscore",
	"ms-gf:specevalue":         "msgf_specevalue",
	"ms-gf:evalue":             "msgf_evalue",
	"amanda:amandascore":       "amanda_score",
	"myrimatch:mvh":            "myrimatch_mvh",

	"openms:posterior error probability": "openms_posterior_error_probability",
	"pia:psm combined fdr score":         PSMCombinedFDRScore,
}

func init() {
	for _, m := range []Model{
		{Name: "average_fdr_score", Description: "Average FDR Score"},
		{Name: PSMCombinedFDRScore, Description: "PSM Combined FDR Score"},
		{Name: PSMFDRScore, Description: "PSM FDRScore"},
		{Name: PSMQValue, Description: "PSM q-value"},
		{Name: "peptide_combined_fdr_score", Description: "Peptide Combined FDR Score"},
		{Name: "peptide_fdr_score", Description: "Peptide FDRScore"},
		{Name: "peptide_q_value", Description: "Peptide q-value"},
		{Name: "mascot_expect", Description: "Mascot Expect"},
		{Name: "mascot_score", Description: "Mascot Ion Score", HigherBetter: true},
		{Name: "sequest_probability", Description: "Sequest Probability"},
		{Name: "sequest_spscore", Description: "SpScore", HigherBetter: true},
		{Name: "sequest_xcorr", Description: "XCorr", HigherBetter: true},
		{Name: "xtandem_expect", Description: "X!Tandem Expect"},
		{Name: "xtandem_hyperscore", Description: "X!Tandem Hyperscore", HigherBetter: true},
		{Name: "msgf_rawscore", Description: "MS-GF:RawScore", HigherBetter: true},
		{Name: "msgf_denovoscore", Description: "MS-GF:DeNovoScore", HigherBetter: true},
		{Name: "msgf_specevalue", Description: "MS-GF:SpecEValue"},
		{Name: "msgf_evalue", Description: "MS-GF:EValue"},
		{Name: "amanda_score", Description: "Amanda Score", HigherBetter: true},
		{Name: "myrimatch_mvh", Description: "MyriMatch:MVH", HigherBetter: true},
		{Name: "openms_posterior_error_probability", Description: "OpenMS Posterior Error Probability"},
		{Name: "openms_posterior_probability", Description: "OpenMS Posterior Probability", HigherBetter: true},
		{Name: PeptideScore, Description: "Peptide score", HigherBetter: true},
		{Name: ProteinScore, Description: "Protein score", HigherBetter: true},
	} {
		m.Known = true
		registry[m.Name] = m
	}
}

// Normalize converts a score name as reported by a search engine to the
// short name used by gnpia: known vocabulary names are translated,
// others are lower-cased with runs of other characters replaced by "_".
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := cvAliases[name]; ok {
		return alias
	}
	var b strings.Builder
	underscore := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Lookup returns the model of the score.
func Lookup(name string) Model {
	if m, ok := registry[name]; ok {
		return m
	}
	return Model{Name: name, Description: name, HigherBetter: true}
}

// Compare returns a negative number if a is better than b, a positive
// number if b is better and 0 if they are equal. NaN is worse than any
// number.
func (m Model) Compare(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a == b:
		return 0
	}
	if (a > b) == m.HigherBetter {
		return -1
	}
	return 1
}

// Better is true if a is strictly better than b.
func (m Model) Better(a, b float64) bool {
	return m.Compare(a, b) < 0
}

// Worst returns the worst possible value of the score.
func (m Model) Worst() float64 {
	if m.HigherBetter {
		return math.Inf(-1)
	}
	return math.Inf(1)
}
