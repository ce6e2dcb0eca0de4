package linear

import (
	"errors"
	"fmt"
)

var ErrRankDeficient = errors.New("design matrix is rank deficient")

type OLSModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// FitOLS fits ordinary least squares of response on the samples via the
// normal equations. An intercept term is always included. A singular
// X'X (collinear regressors) is reported as ErrRankDeficient.
func FitOLS(samples [][]float64, response []float64) (OLSModel, error) {
	n := len(samples)
	if n == 0 {
		return OLSModel{}, ErrNoSamples
	}
	if len(response) != n {
		return OLSModel{}, fmt.Errorf("%d samples but %d responses", n, len(response))
	}

	featureCount := len(samples[0])
	p := featureCount + 1
	if n < p {
		return OLSModel{}, ErrRankDeficient
	}

	design := make([][]float64, n)
	for i, sample := range samples {
		if len(sample) != featureCount {
			return OLSModel{}, fmt.Errorf("sample %d has %d features, expected %d", i, len(sample), featureCount)
		}
		row := make([]float64, p)
		row[0] = 1
		copy(row[1:], sample)
		design[i] = row
	}

	xtx := make([][]float64, p)
	for j := range xtx {
		xtx[j] = make([]float64, p)
	}
	xty := make([]float64, p)
	for i, row := range design {
		for j := 0; j < p; j++ {
			xty[j] += row[j] * response[i]
			for k := j; k < p; k++ {
				xtx[j][k] += row[j] * row[k]
			}
		}
	}
	for j := 0; j < p; j++ {
		for k := 0; k < j; k++ {
			xtx[j][k] = xtx[k][j]
		}
	}

	beta, err := solveSystem(xtx, xty)
	if err != nil {
		if errors.Is(err, ErrSingularMatrix) {
			return OLSModel{}, ErrRankDeficient
		}
		return OLSModel{}, err
	}

	return OLSModel{Intercept: beta[0], Coefficients: beta[1:]}, nil
}

// Predict returns the fitted value for one sample.
func (m OLSModel) Predict(sample []float64) float64 {
	return dot(m.Coefficients, sample) + m.Intercept
}
