package scoring_test

import (
	"math"
	"testing"

	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/report"
	"github.com/gnames/gnpia/pkg/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// protein builds a protein with one peptide per entry of scores, each
// peptide having one PSM set per score value.
func protein(t *testing.T, name string, scores [][]float64) *report.Protein {
	t.Helper()
	s := intermediate.NewStore()
	s.AddInputFile("f", "f.tsv", "tsv")
	acc := s.InsertAccession("P1", "")
	for i, vals := range scores {
		pep := s.InsertPeptide(string(rune('A' + i)))
		for j, v := range vals {
			_, err := s.InsertPSM(&intermediate.PSM{
				FileID:       1,
				Sequence:     pep.Sequence,
				Charge:       j + 1,
				Scores:       map[string]float64{name: v},
				PeptideID:    pep.ID,
				AccessionIDs: []int64{acc.ID},
			})
			require.NoError(t, err)
		}
	}
	m := report.BuildPSMSets(s, intermediate.DefaultKeySettings(), true)
	res := report.NewProtein(1)
	res.AddAccession(acc)
	for _, ip := range s.Peptides() {
		pep := report.NewPeptide(ip.Sequence, ip, []*intermediate.Accession{acc})
		for _, set := range m.ForPeptide(ip.ID) {
			pep.AddSet(set)
		}
		res.AddPeptide(pep)
	}
	return res
}

func TestNew(t *testing.T) {
	_, err := scoring.New("bad", "mascot_score", "best")
	assert.Error(t, err)
	_, err = scoring.New(string(scoring.Additive), "mascot_score", "some")
	assert.Error(t, err)
	_, err = scoring.New(string(scoring.Additive), "", "best")
	assert.Error(t, err)
	s, err := scoring.New(string(scoring.Additive), "mascot_score", "")
	require.NoError(t, err)
	assert.Equal(t, scoring.Best, s.PSMs)
}

func TestProteinScore(t *testing.T) {
	higher := [][]float64{{10, 20}, {5}}
	lower := [][]float64{{0.01, 0.1}, {0.001}}
	tests := []struct {
		msg       string
		method    scoring.Method
		scoreName string
		psms      string
		scores    [][]float64
		res       float64
	}{
		{"additive best", scoring.Additive, "mascot_score", "best", higher, 25},
		{"additive all", scoring.Additive, "mascot_score", "all", higher, 35},
		{"multiplicative higher", scoring.Multiplicative, "mascot_score", "best", higher, 100},
		{"multiplicative lower", scoring.Multiplicative, "xtandem_expect", "best", lower, 5},
		{"multiplicative lower all", scoring.Multiplicative, "xtandem_expect", "all", lower, 6},
		{"geometric higher", scoring.GeometricMean, "mascot_score", "best", [][]float64{{4}, {9}}, 6},
		{"geometric lower", scoring.GeometricMean, "xtandem_expect", "best", lower, 2.5},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			s, err := scoring.New(string(v.method), v.scoreName, v.psms)
			require.NoError(t, err)
			p := protein(t, v.scoreName, v.scores)
			assert.InDelta(t, v.res, s.ProteinScore(p), 1e-9)
		})
	}

	s, err := scoring.New(string(scoring.Additive), "other_score", "best")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(s.ProteinScore(protein(t, "mascot_score", higher))))
}
