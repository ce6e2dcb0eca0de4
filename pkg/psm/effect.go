package psm

import (
	"github.com/synaptica-ai/psmatch/pkg/ml/linear"
)

// EffectEstimate carries both ATT readings over the matched set. They
// may differ; neither is preferred here.
type EffectEstimate struct {
	ATTNaive      float64 `json:"att_naive"`
	ATTRegression float64 `json:"att_regression"`
}

// EstimateEffect computes the average treatment effect on the treated
// over the matched set, both as a raw difference in mean outcomes and
// as the treatment coefficient of an OLS fit of outcome on
// [intercept, treatment, covariates]. A rank-deficient regression (a
// covariate collinear with treatment after matching) is a fatal
// ModelFitError.
func EstimateEffect(matched *MatchedSet) (EffectEstimate, error) {
	var treatedSum, treatedCount, controlSum, controlCount float64
	for i, t := range matched.Treatment {
		if t == 1 {
			treatedSum += matched.Outcome[i]
			treatedCount++
		} else {
			controlSum += matched.Outcome[i]
			controlCount++
		}
	}
	if treatedCount == 0 || controlCount == 0 {
		return EffectEstimate{}, InsufficientDataError{Reason: "matched set lacks a treated or control group"}
	}
	naive := treatedSum/treatedCount - controlSum/controlCount

	samples := make([][]float64, matched.Size())
	for i := range samples {
		row := make([]float64, 1+len(matched.Covariates[i]))
		row[0] = matched.Treatment[i]
		copy(row[1:], matched.Covariates[i])
		samples[i] = row
	}
	model, err := linear.FitOLS(samples, matched.Outcome)
	if err != nil {
		return EffectEstimate{}, ModelFitError{Model: "outcome", Reason: err}
	}

	return EffectEstimate{
		ATTNaive:      naive,
		ATTRegression: model.Coefficients[0],
	}, nil
}
