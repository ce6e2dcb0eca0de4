package linear

import (
	"errors"
	"testing"
)

func TestFitLogisticRecoversDirection(t *testing.T) {
	samples := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}}
	labels := []float64{0, 0, 1, 0, 1, 1}

	model, err := FitLogistic(samples, labels, LogisticOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.Coefficients[0] <= 0 {
		t.Fatalf("expected positive slope, got %f", model.Coefficients[0])
	}
	if model.Iterations <= 0 {
		t.Fatalf("expected at least one iteration, got %d", model.Iterations)
	}

	low := model.Probability([]float64{0})
	high := model.Probability([]float64{5})
	if low >= high {
		t.Fatalf("expected probability to increase with the feature: %f >= %f", low, high)
	}
	if low < 0 || low > 1 || high < 0 || high > 1 {
		t.Fatalf("probabilities out of range: %f, %f", low, high)
	}
}

func TestFitLogisticConstantLabels(t *testing.T) {
	samples := [][]float64{{1}, {2}, {3}}

	if _, err := FitLogistic(samples, []float64{1, 1, 1}, LogisticOptions{}); !errors.Is(err, ErrConstantLabel) {
		t.Fatalf("expected ErrConstantLabel for all-ones labels, got %v", err)
	}
	if _, err := FitLogistic(samples, []float64{0, 0, 0}, LogisticOptions{}); !errors.Is(err, ErrConstantLabel) {
		t.Fatalf("expected ErrConstantLabel for all-zeros labels, got %v", err)
	}
}

func TestFitLogisticCollinearCovariates(t *testing.T) {
	samples := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {6, 6}}
	labels := []float64{0, 1, 0, 1, 0, 1}

	_, err := FitLogistic(samples, labels, LogisticOptions{})
	if !errors.Is(err, ErrSingularMatrix) {
		t.Fatalf("expected ErrSingularMatrix for duplicated column, got %v", err)
	}
}

func TestFitLogisticNoSamples(t *testing.T) {
	if _, err := FitLogistic(nil, nil, LogisticOptions{}); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}
