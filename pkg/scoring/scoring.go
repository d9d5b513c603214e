// Package scoring calculates protein scores from the scores of their
// peptides or PSM sets.
package scoring

import (
	"fmt"
	"math"

	"github.com/gnames/gnpia/pkg/report"
	"github.com/gnames/gnpia/pkg/score"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Method of combining scores into a protein score.
type Method string

const (
	Additive       Method = "scoring_additive"
	Multiplicative Method = "scoring_multiplicative"
	GeometricMean  Method = "geometric_mean_scoring"
)

// PSMForScoring selects the values that are combined.
type PSMForScoring string

const (
	// Best takes the best score of every peptide.
	Best PSMForScoring = "best"
	// All takes the score of every PSM set of every peptide.
	All PSMForScoring = "all"
)

// Methods lists known scoring methods.
var Methods = []Method{Additive, Multiplicative, GeometricMean}

// Scoring calculates protein scores. Protein scores are always
// higher-is-better.
type Scoring struct {
	Method    Method
	ScoreName string
	PSMs      PSMForScoring
	model     score.Model
}

// New creates Scoring or returns an error for unknown settings.
func New(method, scoreName, psms string) (*Scoring, error) {
	m := Method(method)
	switch m {
	case Additive, Multiplicative, GeometricMean:
	default:
		return nil, fmt.Errorf("unknown scoring method %q", method)
	}
	p := PSMForScoring(psms)
	switch p {
	case Best, All:
	case "":
		p = Best
	default:
		return nil, fmt.Errorf("unknown PSM for scoring setting %q", psms)
	}
	if scoreName == "" {
		return nil, fmt.Errorf("no score given for %s", method)
	}
	return &Scoring{
		Method:    m,
		ScoreName: scoreName,
		PSMs:      p,
		model:     score.Lookup(scoreName),
	}, nil
}

// ProteinScore combines the scores of the protein's peptides. Returns
// NaN if none of them has the score.
func (s *Scoring) ProteinScore(p *report.Protein) float64 {
	vals := s.values(p)
	if len(vals) == 0 {
		return math.NaN()
	}
	higher := s.model.HigherBetter

	switch s.Method {
	case Additive:
		return floats.Sum(vals)
	case Multiplicative:
		if higher {
			return floats.Prod(vals)
		}
		var res float64
		for _, v := range vals {
			res -= math.Log10(v)
		}
		return res
	case GeometricMean:
		gm := stat.GeometricMean(vals, nil)
		if higher {
			return gm
		}
		return -math.Log10(gm)
	}
	return math.NaN()
}

// values collects non-NaN scores in peptide order.
func (s *Scoring) values(p *report.Protein) []float64 {
	var res []float64
	for _, pep := range p.Peptides() {
		switch s.PSMs {
		case Best:
			if v := pep.ScoreOf(s.ScoreName); !math.IsNaN(v) {
				res = append(res, v)
			}
		case All:
			for _, set := range pep.ScoringSets() {
				if v := set.ScoreOf(s.ScoreName); !math.IsNaN(v) {
					res = append(res, v)
				}
			}
		}
	}
	return res
}
