package report

import (
	"cmp"
	"math"
	"slices"

	"github.com/gnames/gnpia/pkg/score"
)

// RankPSMs ranks PSMs of every file by the score. Equal scores share a
// rank, PSMs without the score get rank 0.
func (m *PSMSetMap) RankPSMs(scoreName string) {
	model := score.Lookup(scoreName)
	byFile := make(map[int64][]*PSM)
	for _, p := range m.psms {
		p.Rank = 0
		if math.IsNaN(p.ScoreOf(scoreName)) {
			continue
		}
		byFile[p.FileID] = append(byFile[p.FileID], p)
	}

	for _, psms := range byFile {
		slices.SortStableFunc(psms, func(a, b *PSM) int {
			return model.Compare(a.ScoreOf(scoreName), b.ScoreOf(scoreName))
		})
		assignRanks(psms,
			func(p *PSM) float64 { return p.ScoreOf(scoreName) },
			func(p *PSM, rank int) { p.Rank = rank },
		)
	}
}

// RankProteins sorts proteins by score, higher first and NaN last, and
// sets their ranks. Proteins with equal scores share a rank and are
// ordered by their accessions.
func RankProteins(proteins []*Protein) {
	model := score.Lookup(score.ProteinScore)
	slices.SortStableFunc(proteins, func(a, b *Protein) int {
		if res := model.Compare(a.Score, b.Score); res != 0 {
			return res
		}
		return slices.Compare(a.AccessionNames(), b.AccessionNames())
	})
	assignRanks(proteins,
		func(p *Protein) float64 { return p.Score },
		func(p *Protein, rank int) { p.Rank = rank },
	)
}

// assignRanks expects sorted items and gives equal values the rank of
// the first of them.
func assignRanks[T any](
	items []T,
	value func(T) float64,
	setRank func(T, int),
) {
	rank := 0
	prev := math.NaN()
	for i, item := range items {
		v := value(item)
		if i == 0 || !sameScore(v, prev) {
			rank = i + 1
		}
		setRank(item, rank)
		prev = v
	}
}

func sameScore(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return cmp.Compare(a, b) == 0
}
