package linear

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoSamples     = errors.New("no samples to fit")
	ErrNoConvergence = errors.New("fit did not converge")
	ErrConstantLabel = errors.New("labels are constant")
)

type LogisticOptions struct {
	MaxIterations int
	Tolerance     float64
}

type LogisticModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Iterations   int       `json:"iterations"`
	Deviance     float64   `json:"deviance"`
}

// FitLogistic fits a binary logistic regression by iteratively
// reweighted least squares. Labels must be 0 or 1. An intercept term is
// always included; Coefficients holds only the covariate weights.
//
// Unlike a gradient-descent fit, IRLS either converges or reports a
// typed failure: ErrConstantLabel when the labels carry no variation,
// ErrSingularMatrix when the weighted normal system is rank-deficient
// (collinear covariates), ErrNoConvergence when the iteration budget is
// exhausted (perfect separation shows up here).
func FitLogistic(samples [][]float64, labels []float64, opts LogisticOptions) (LogisticModel, error) {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 50
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = 1e-8
	}

	n := len(samples)
	if n == 0 {
		return LogisticModel{}, ErrNoSamples
	}
	if len(labels) != n {
		return LogisticModel{}, fmt.Errorf("%d samples but %d labels", n, len(labels))
	}

	var ones int
	for _, y := range labels {
		if y != 0 {
			ones++
		}
	}
	if ones == 0 || ones == n {
		return LogisticModel{}, ErrConstantLabel
	}

	featureCount := len(samples[0])
	p := featureCount + 1 // intercept first

	// design matrix rows with a leading 1
	design := make([][]float64, n)
	for i, sample := range samples {
		if len(sample) != featureCount {
			return LogisticModel{}, fmt.Errorf("sample %d has %d features, expected %d", i, len(sample), featureCount)
		}
		row := make([]float64, p)
		row[0] = 1
		copy(row[1:], sample)
		design[i] = row
	}

	beta := make([]float64, p)
	probs := make([]float64, n)

	var iterations int
	converged := false
	for iter := 0; iter < opts.MaxIterations; iter++ {
		iterations = iter + 1

		for i := range design {
			probs[i] = sigmoid(dot(beta, design[i]))
		}

		// X' W X and X' (y - p)
		xtwx := make([][]float64, p)
		for j := range xtwx {
			xtwx[j] = make([]float64, p)
		}
		score := make([]float64, p)
		for i, row := range design {
			w := probs[i] * (1 - probs[i])
			if w < 1e-10 {
				w = 1e-10
			}
			for j := 0; j < p; j++ {
				score[j] += row[j] * (labels[i] - probs[i])
				for k := j; k < p; k++ {
					xtwx[j][k] += w * row[j] * row[k]
				}
			}
		}
		for j := 0; j < p; j++ {
			for k := 0; k < j; k++ {
				xtwx[j][k] = xtwx[k][j]
			}
		}

		delta, err := solveSystem(xtwx, score)
		if err != nil {
			return LogisticModel{}, err
		}

		maxStep := 0.0
		for j := 0; j < p; j++ {
			beta[j] += delta[j]
			if step := math.Abs(delta[j]); step > maxStep {
				maxStep = step
			}
		}
		if maxStep < opts.Tolerance {
			converged = true
			break
		}
	}

	if !converged {
		return LogisticModel{}, ErrNoConvergence
	}

	var deviance float64
	for i, row := range design {
		prob := sigmoid(dot(beta, row))
		deviance += -2 * (labels[i]*math.Log(prob+1e-12) + (1-labels[i])*math.Log(1-prob+1e-12))
	}

	return LogisticModel{
		Intercept:    beta[0],
		Coefficients: beta[1:],
		Iterations:   iterations,
		Deviance:     deviance,
	}, nil
}

// Probability returns the fitted probability of label 1 for one sample.
func (m LogisticModel) Probability(sample []float64) float64 {
	return sigmoid(dot(m.Coefficients, sample) + m.Intercept)
}
