package psm

import (
	"github.com/synaptica-ai/psmatch/pkg/ml/linear"
)

// PropensitySummary is the reportable part of the fitted propensity
// model.
type PropensitySummary struct {
	Intercept      float64   `json:"intercept"`
	Coefficients   []float64 `json:"coefficients"`
	CovariateNames []string  `json:"covariate_names"`
	Iterations     int       `json:"iterations"`
	Deviance       float64   `json:"deviance"`
}

// ScoredSample is a Sample with a propensity score attached to every
// unit. Scores are fitted from covariates only; the outcome column is
// never part of the design.
type ScoredSample struct {
	*Sample
	Scores []float64
	Model  PropensitySummary
}

// FitPropensity fits logistic regression of treatment on covariates and
// attaches each unit's predicted treatment probability. Constant
// treatment, collinear covariates and non-convergence all surface as
// ModelFitError rather than degenerate scores.
func FitPropensity(sample *Sample) (*ScoredSample, error) {
	model, err := linear.FitLogistic(sample.Covariates, sample.Treatment, linear.LogisticOptions{})
	if err != nil {
		return nil, ModelFitError{Model: "propensity", Reason: err}
	}

	scores := make([]float64, sample.NumRows())
	for i, covariates := range sample.Covariates {
		scores[i] = model.Probability(covariates)
	}

	return &ScoredSample{
		Sample: sample,
		Scores: scores,
		Model: PropensitySummary{
			Intercept:      model.Intercept,
			Coefficients:   model.Coefficients,
			CovariateNames: append([]string(nil), sample.CovariateNames...),
			Iterations:     model.Iterations,
			Deviance:       model.Deviance,
		},
	}, nil
}
