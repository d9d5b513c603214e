package score_test

import (
	"math"
	"testing"

	"github.com/gnames/gnpia/pkg/score"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		msg, name, res string
	}{
		{"alias", "Mascot:score", "mascot_score"},
		{"alias with spaces", " X!Tandem:expect ", "xtandem_expect"},
		{"short name", "msgf_specevalue", "msgf_specevalue"},
		{"unknown", "Comet:xcorr (raw)", "comet_xcorr_raw"},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.Equal(t, v.res, score.Normalize(v.name))
		})
	}
}

func TestLookup(t *testing.T) {
	m := score.Lookup("mascot_score")
	assert.True(t, m.Known)
	assert.True(t, m.HigherBetter)

	m = score.Lookup(score.PSMCombinedFDRScore)
	assert.True(t, m.Known)
	assert.False(t, m.HigherBetter)

	m = score.Lookup("my_score")
	assert.False(t, m.Known)
	assert.True(t, m.HigherBetter)
}

func TestCompare(t *testing.T) {
	nan := math.NaN()
	higher := score.Lookup("mascot_score")
	lower := score.Lookup("xtandem_expect")
	tests := []struct {
		msg  string
		m    score.Model
		a, b float64
		res  int
	}{
		{"higher better", higher, 40, 20, -1},
		{"higher worse", higher, 20, 40, 1},
		{"lower better", lower, 0.01, 0.1, -1},
		{"lower worse", lower, 0.1, 0.01, 1},
		{"equal", lower, 0.1, 0.1, 0},
		{"nan first", higher, nan, 1, 1},
		{"nan second", lower, 1, nan, -1},
		{"both nan", lower, nan, nan, 0},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.Equal(t, v.res, v.m.Compare(v.a, v.b))
		})
	}
	assert.True(t, math.IsInf(higher.Worst(), -1))
	assert.True(t, lower.Better(0.01, lower.Worst()))
}
