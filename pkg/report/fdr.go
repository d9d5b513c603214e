package report

import (
	"math"
	"slices"

	"github.com/gnames/gnpia/pkg/score"
)

// FDRStats summarizes a target-decoy FDR estimation.
type FDRStats struct {
	NrItems          int
	NrTargets        int
	NrDecoys         int
	NrFDRGoodTargets int
	NrFDRGoodDecoys  int
	ScoreAtThreshold float64
}

// CalculateFDR estimates the FDR of all PSM sets using the decoys. Sets
// are sorted by the score, the FDR at a position is the ratio of decoys
// to targets up to it, sets with equal scores share the FDR. The
// q-value is the lowest FDR at or below a position, and it also becomes
// the FDR score of the set. A zero q-value gives the FDR score of one
// decoy among all targets, so that logarithms of FDR scores stay finite.
// Sets without the score are left with NaN.
//
// Returns false if there are no decoys to estimate the FDR from.
func (m *PSMSetMap) CalculateFDR(
	scoreName string,
	threshold float64,
) (FDRStats, bool) {
	res := FDRStats{ScoreAtThreshold: math.NaN()}
	if !m.HasDecoys() {
		return res, false
	}

	model := score.Lookup(scoreName)
	var sets []*PSMSet
	for _, s := range m.Sets() {
		s.FDR, s.QValue, s.FDRScore, s.FDRGood = math.NaN(), math.NaN(), math.NaN(), false
		if !math.IsNaN(s.ScoreOf(scoreName)) {
			sets = append(sets, s)
		}
	}
	if len(sets) == 0 {
		return res, false
	}
	slices.SortStableFunc(sets, func(a, b *PSMSet) int {
		return model.Compare(a.ScoreOf(scoreName), b.ScoreOf(scoreName))
	})

	var targets, decoys int
	lastGood := -1
	start := 0
	closeRank := func(end int) {
		fdr := math.Inf(1)
		if targets > 0 {
			fdr = float64(decoys) / float64(targets)
		}
		for _, s := range sets[start:end] {
			s.FDR = fdr
		}
		if fdr <= threshold {
			lastGood = end - 1
		}
		start = end
	}
	for i, s := range sets {
		if i > 0 && s.ScoreOf(scoreName) != sets[i-1].ScoreOf(scoreName) {
			closeRank(i)
		}
		if s.Decoy {
			decoys++
		} else {
			targets++
		}
	}
	closeRank(len(sets))

	q := math.NaN()
	for i := len(sets) - 1; i >= 0; i-- {
		s := sets[i]
		if math.IsNaN(q) || s.FDR < q {
			q = s.FDR
		}
		s.QValue = q
		s.FDRScore = q
		if q == 0 {
			s.FDRScore = 1 / float64(targets)
		}
	}
	assignRanks(sets,
		func(s *PSMSet) float64 { return s.ScoreOf(scoreName) },
		func(s *PSMSet, rank int) { s.Rank = rank },
	)

	for i, s := range sets {
		s.FDRGood = i <= lastGood
		if !s.FDRGood {
			continue
		}
		if s.Decoy {
			res.NrFDRGoodDecoys++
		} else {
			res.NrFDRGoodTargets++
		}
	}
	if lastGood >= 0 {
		res.ScoreAtThreshold = sets[lastGood].ScoreOf(scoreName)
	}
	res.NrItems = len(sets)
	res.NrTargets = targets
	res.NrDecoys = decoys
	return res, true
}
