package psm

import (
	"errors"
	"fmt"
)

// Pipeline stage names, used to label failures.
const (
	StageSelect     = "column_select"
	StagePropensity = "propensity_model"
	StageMatch      = "matching"
	StageBalance    = "balance_check"
	StageEffect     = "effect_estimate"
)

// ConfigurationError reports a requested column that is not present in
// the input dataset. Distinct from InsufficientDataError: the column
// exists in the latter case, the rows do not.
type ConfigurationError struct {
	Column string
	Role   string // treatment, outcome, covariate
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("%s column %q not present in dataset", e.Role, e.Column)
}

// InsufficientDataError reports that filtering or pool partitioning left
// nothing to work with.
type InsufficientDataError struct {
	Reason string
}

func (e InsufficientDataError) Error() string {
	return e.Reason
}

// ModelFitError reports a regression that could not be fitted: constant
// treatment, non-convergence, or a rank-deficient design.
type ModelFitError struct {
	Model  string // propensity, outcome
	Reason error
}

func (e ModelFitError) Error() string {
	return fmt.Sprintf("%s model fit failed: %v", e.Model, e.Reason)
}

func (e ModelFitError) Unwrap() error {
	return e.Reason
}

// StageError labels a fatal pipeline failure with the stage it occurred
// in. The cause is available through errors.As / errors.Is.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func IsConfigurationError(err error) bool {
	var ce ConfigurationError
	return errors.As(err, &ce)
}

func IsInsufficientDataError(err error) bool {
	var ie InsufficientDataError
	return errors.As(err, &ie)
}

func IsModelFitError(err error) bool {
	var me ModelFitError
	return errors.As(err, &me)
}

// FailedStage returns the stage name a pipeline error occurred in, or
// an empty string if the error carries no stage label.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
