package psm

import (
	"fmt"
	"math"
)

// BalanceRecord holds one covariate's standardized mean difference
// between treated and control groups, before and after matching. A nil
// SMD means balance could not be assessed for that covariate (no
// variance in either group, or a single-unit group); it is never
// reported as zero.
type BalanceRecord struct {
	Covariate string   `json:"covariate"`
	SMDBefore *float64 `json:"smd_before"`
	SMDAfter  *float64 `json:"smd_after"`
}

// CheckBalance computes per-covariate SMDs on the pre-match sample and
// on the matched set. Undefined SMDs are non-fatal: they come back as
// warnings alongside the records.
func CheckBalance(scored *ScoredSample, matched *MatchedSet) ([]BalanceRecord, []string) {
	records := make([]BalanceRecord, len(scored.CovariateNames))
	var warnings []string

	for i, name := range scored.CovariateNames {
		before := smd(
			groupValues(scored.Covariates, scored.Treatment, i, 1),
			groupValues(scored.Covariates, scored.Treatment, i, 0),
		)
		after := smd(
			groupValues(matched.Covariates, matched.Treatment, i, 1),
			groupValues(matched.Covariates, matched.Treatment, i, 0),
		)
		records[i] = BalanceRecord{
			Covariate: name,
			SMDBefore: before,
			SMDAfter:  after,
		}
		if before == nil {
			warnings = append(warnings, fmt.Sprintf("balance undefined for covariate %q before matching", name))
		}
		if after == nil {
			warnings = append(warnings, fmt.Sprintf("balance undefined for covariate %q after matching", name))
		}
	}

	return records, warnings
}

// smd returns (mean_a - mean_b) / sqrt((var_a + var_b) / 2), or nil
// when the pooled standard deviation is zero or either group is too
// small for a sample variance.
func smd(a, b []float64) *float64 {
	if len(a) < 2 || len(b) < 2 {
		return nil
	}
	meanA, varA := meanVariance(a)
	meanB, varB := meanVariance(b)
	pooled := math.Sqrt((varA + varB) / 2)
	if pooled == 0 {
		return nil
	}
	value := (meanA - meanB) / pooled
	return &value
}

func groupValues(covariates [][]float64, treatment []float64, col int, group float64) []float64 {
	var values []float64
	for row, t := range treatment {
		if t == group {
			values = append(values, covariates[row][col])
		}
	}
	return values
}

// meanVariance returns the mean and the sample variance (n-1 in the
// denominator) of values. Callers guarantee len(values) >= 2.
func meanVariance(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		diff := v - mean
		sq += diff * diff
	}
	return mean, sq / float64(len(values)-1)
}
