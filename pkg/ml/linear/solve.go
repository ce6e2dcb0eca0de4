package linear

import (
	"errors"
	"math"
)

var ErrSingularMatrix = errors.New("matrix is singular or nearly singular")

const pivotTolerance = 1e-10

// solveSystem solves a*x = b in place by Gaussian elimination with
// partial pivoting. Both a and b are clobbered. Singularity is judged
// relative to the largest entry so the check holds at any covariate
// scale.
func solveSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)

	scale := 1.0
	for _, row := range a {
		for _, v := range row {
			if abs := math.Abs(v); abs > scale {
				scale = abs
			}
		}
	}
	threshold := pivotTolerance * scale

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < threshold {
			return nil, ErrSingularMatrix
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			b[col], b[pivot] = b[pivot], b[col]
		}
		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			if factor == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, nil
}

func dot(weights []float64, sample []float64) float64 {
	var sum float64
	for i := 0; i < len(weights); i++ {
		sum += weights[i] * sample[i]
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
