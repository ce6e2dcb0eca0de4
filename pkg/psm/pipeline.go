package psm

import (
	"github.com/synaptica-ai/psmatch/pkg/dataset"
)

// AnalysisResult is the full output of one estimator run. A result is
// only returned when every fatal stage succeeded; warnings carry the
// non-fatal conditions (undefined balance) encountered on the way.
type AnalysisResult struct {
	RowsBefore    int               `json:"rows_before"`
	RowsAfter     int               `json:"rows_after"`
	RowsDropped   int               `json:"rows_dropped"`
	TreatedCount  int               `json:"treated_count"`
	ControlCount  int               `json:"control_count"`
	Propensity    PropensitySummary `json:"propensity"`
	MatchedPairs  int               `json:"matched_pairs"`
	MatchedSize   int               `json:"matched_size"`
	Balance       []BalanceRecord   `json:"balance"`
	ATTNaive      float64           `json:"att_naive"`
	ATTRegression float64           `json:"att_regression"`
	Warnings      []string          `json:"warnings,omitempty"`
}

// Run executes the five-stage pipeline: column selection, propensity
// fit, nearest-neighbor matching, balance check, effect estimation.
// Each stage consumes only a successful predecessor; the first fatal
// error aborts with a StageError naming where it happened.
func Run(table *dataset.Table, cfg Config) (*AnalysisResult, error) {
	sample, err := SelectColumns(table, cfg)
	if err != nil {
		return nil, &StageError{Stage: StageSelect, Err: err}
	}

	scored, err := FitPropensity(sample)
	if err != nil {
		return nil, &StageError{Stage: StagePropensity, Err: err}
	}

	matched, err := MatchNearest(scored, cfg.WithoutReplacement)
	if err != nil {
		return nil, &StageError{Stage: StageMatch, Err: err}
	}

	balance, warnings := CheckBalance(scored, matched)

	effect, err := EstimateEffect(matched)
	if err != nil {
		return nil, &StageError{Stage: StageEffect, Err: err}
	}

	var treated, control int
	for _, t := range sample.Treatment {
		if t == 1 {
			treated++
		} else {
			control++
		}
	}

	return &AnalysisResult{
		RowsBefore:    sample.RowsBefore,
		RowsAfter:     sample.NumRows(),
		RowsDropped:   sample.RowsDropped,
		TreatedCount:  treated,
		ControlCount:  control,
		Propensity:    scored.Model,
		MatchedPairs:  len(matched.Pairs),
		MatchedSize:   matched.Size(),
		Balance:       balance,
		ATTNaive:      effect.ATTNaive,
		ATTRegression: effect.ATTRegression,
		Warnings:      warnings,
	}, nil
}
