package psm

import (
	"fmt"
	"math"
)

// MatchedPair associates one treated unit with its nearest control.
// Indices refer to rows of the scored sample.
type MatchedPair struct {
	TreatedRow int
	ControlRow int
	Distance   float64
}

// MatchedSet is the matched dataset: every treated unit plus its
// selected control, controls possibly duplicated. SourceRows keeps each
// unit's row index in the original input table.
type MatchedSet struct {
	Pairs          []MatchedPair
	Treatment      []float64
	Outcome        []float64
	Scores         []float64
	Covariates     [][]float64
	CovariateNames []string
	SourceRows     []int
}

func (m *MatchedSet) Size() int {
	return len(m.Treatment)
}

// MatchNearest pairs each treated unit with the control whose
// propensity score is closest in absolute distance. Greedy 1-NN per
// treated unit: ties go to the first control in input order, and the
// result is deterministic for a given input ordering. By default a
// control can serve several treated units; withoutReplacement removes
// each matched control from the pool, which makes the result depend on
// treated-unit order and can exhaust the pool.
func MatchNearest(scored *ScoredSample, withoutReplacement bool) (*MatchedSet, error) {
	var treatedRows, controlRows []int
	for i, t := range scored.Treatment {
		if t == 1 {
			treatedRows = append(treatedRows, i)
		} else {
			controlRows = append(controlRows, i)
		}
	}

	if len(treatedRows) == 0 {
		return nil, InsufficientDataError{Reason: "no treated units to match"}
	}
	if len(controlRows) == 0 {
		return nil, InsufficientDataError{Reason: "no control units to match against"}
	}

	used := make(map[int]bool)
	pairs := make([]MatchedPair, 0, len(treatedRows))
	for _, treated := range treatedRows {
		best := -1
		bestDistance := math.Inf(1)
		for _, control := range controlRows {
			if withoutReplacement && used[control] {
				continue
			}
			distance := math.Abs(scored.Scores[treated] - scored.Scores[control])
			if distance < bestDistance {
				bestDistance = distance
				best = control
			}
		}
		if best < 0 {
			return nil, InsufficientDataError{
				Reason: fmt.Sprintf("control pool exhausted after %d matches without replacement", len(pairs)),
			}
		}
		if withoutReplacement {
			used[best] = true
		}
		pairs = append(pairs, MatchedPair{TreatedRow: treated, ControlRow: best, Distance: bestDistance})
	}

	matched := &MatchedSet{
		Pairs:          pairs,
		CovariateNames: append([]string(nil), scored.CovariateNames...),
	}
	for _, pair := range pairs {
		matched.appendRow(scored, pair.TreatedRow)
	}
	for _, pair := range pairs {
		matched.appendRow(scored, pair.ControlRow)
	}
	return matched, nil
}

func (m *MatchedSet) appendRow(scored *ScoredSample, row int) {
	m.Treatment = append(m.Treatment, scored.Treatment[row])
	m.Outcome = append(m.Outcome, scored.Outcome[row])
	m.Scores = append(m.Scores, scored.Scores[row])
	m.Covariates = append(m.Covariates, scored.Covariates[row])
	m.SourceRows = append(m.SourceRows, scored.SourceRows[row])
}
