package psm

import (
	"reflect"
	"testing"
)

func scoredFixture(treatment []float64, scores []float64) *ScoredSample {
	n := len(treatment)
	covariates := make([][]float64, n)
	outcome := make([]float64, n)
	sourceRows := make([]int, n)
	for i := range covariates {
		covariates[i] = []float64{scores[i] * 100}
		sourceRows[i] = i
	}
	return &ScoredSample{
		Sample: &Sample{
			Treatment:      treatment,
			Outcome:        outcome,
			Covariates:     covariates,
			CovariateNames: []string{"age"},
			SourceRows:     sourceRows,
			RowsBefore:     n,
		},
		Scores: scores,
	}
}

func TestMatchNearestPairsEveryTreatedUnit(t *testing.T) {
	// binary-exact scores so the tie for the second treated unit is exact
	scored := scoredFixture(
		[]float64{1, 1, 1, 0, 0},
		[]float64{0.25, 0.5, 0.875, 0.375, 0.625},
	)

	matched, err := MatchNearest(scored, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched.Pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(matched.Pairs))
	}
	if matched.Size() != 6 {
		t.Fatalf("expected matched size 2x3=6, got %d", matched.Size())
	}
	// 0.25->0.375; 0.5 ties between 0.375 and 0.625, first control wins; 0.875->0.625
	want := []MatchedPair{
		{TreatedRow: 0, ControlRow: 3},
		{TreatedRow: 1, ControlRow: 3},
		{TreatedRow: 2, ControlRow: 4},
	}
	for i, pair := range matched.Pairs {
		if pair.TreatedRow != want[i].TreatedRow || pair.ControlRow != want[i].ControlRow {
			t.Fatalf("pair %d = %+v, want %+v", i, pair, want[i])
		}
	}
}

func TestMatchNearestAllowsControlReuse(t *testing.T) {
	scored := scoredFixture(
		[]float64{1, 1, 0, 0},
		[]float64{0.40, 0.41, 0.42, 0.90},
	)

	matched, err := MatchNearest(scored, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched.Pairs[0].ControlRow != 2 || matched.Pairs[1].ControlRow != 2 {
		t.Fatalf("expected both treated units to reuse control 2, got %+v", matched.Pairs)
	}
	// the reused control appears twice in the matched set, identity intact
	var controlRows []int
	for i, treatment := range matched.Treatment {
		if treatment == 0 {
			controlRows = append(controlRows, matched.SourceRows[i])
		}
	}
	if !reflect.DeepEqual(controlRows, []int{2, 2}) {
		t.Fatalf("expected duplicated control rows [2 2], got %v", controlRows)
	}
}

func TestMatchNearestWithoutReplacement(t *testing.T) {
	scored := scoredFixture(
		[]float64{1, 1, 0, 0},
		[]float64{0.40, 0.41, 0.42, 0.90},
	)

	matched, err := MatchNearest(scored, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched.Pairs[0].ControlRow != 2 {
		t.Fatalf("expected first treated unit to take control 2, got %+v", matched.Pairs[0])
	}
	if matched.Pairs[1].ControlRow != 3 {
		t.Fatalf("expected second treated unit to fall back to control 3, got %+v", matched.Pairs[1])
	}
}

func TestMatchNearestWithoutReplacementExhaustsPool(t *testing.T) {
	scored := scoredFixture(
		[]float64{1, 1, 0},
		[]float64{0.4, 0.5, 0.45},
	)

	_, err := MatchNearest(scored, true)
	if !IsInsufficientDataError(err) {
		t.Fatalf("expected InsufficientDataError when the pool runs out, got %v", err)
	}
}

func TestMatchNearestDeterministic(t *testing.T) {
	scored := scoredFixture(
		[]float64{1, 0, 1, 0, 1, 0},
		[]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
	)

	first, err := MatchNearest(scored, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := MatchNearest(scored, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first.Pairs, second.Pairs) {
		t.Fatalf("matching is not deterministic: %+v vs %+v", first.Pairs, second.Pairs)
	}
}

func TestMatchNearestEmptyPools(t *testing.T) {
	if _, err := MatchNearest(scoredFixture([]float64{1, 1}, []float64{0.1, 0.2}), false); !IsInsufficientDataError(err) {
		t.Fatalf("expected InsufficientDataError for empty control pool, got %v", err)
	}
	if _, err := MatchNearest(scoredFixture([]float64{0, 0}, []float64{0.1, 0.2}), false); !IsInsufficientDataError(err) {
		t.Fatalf("expected InsufficientDataError for empty treated pool, got %v", err)
	}
}
