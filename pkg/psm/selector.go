package psm

import (
	"fmt"

	"github.com/synaptica-ai/psmatch/pkg/dataset"
)

// Config names the analysis columns. It is passed explicitly into the
// pipeline; there is no process-wide configuration.
type Config struct {
	TreatmentColumn    string
	OutcomeColumn      string
	CovariateColumns   []string
	WithoutReplacement bool
}

func (c Config) Validate() error {
	if c.TreatmentColumn == "" {
		return fmt.Errorf("treatment column not configured")
	}
	if c.OutcomeColumn == "" {
		return fmt.Errorf("outcome column not configured")
	}
	if len(c.CovariateColumns) == 0 {
		return fmt.Errorf("no covariate columns configured")
	}
	return nil
}

// Sample is the filtered analysis table: treatment, outcome and
// covariates with no missing cells. SourceRows preserves each unit's
// row index in the input table.
type Sample struct {
	Treatment      []float64
	Outcome        []float64
	Covariates     [][]float64
	CovariateNames []string
	SourceRows     []int
	RowsBefore     int
	RowsDropped    int
}

func (s *Sample) NumRows() int {
	return len(s.Treatment)
}

// SelectColumns extracts the configured columns from the table and
// drops every row with a missing value in any of them. Treatment is
// coerced to strict binary: nonzero becomes 1.
func SelectColumns(table *dataset.Table, cfg Config) (*Sample, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	treatCol, ok := table.Column(cfg.TreatmentColumn)
	if !ok {
		return nil, ConfigurationError{Column: cfg.TreatmentColumn, Role: "treatment"}
	}
	outcomeCol, ok := table.Column(cfg.OutcomeColumn)
	if !ok {
		return nil, ConfigurationError{Column: cfg.OutcomeColumn, Role: "outcome"}
	}
	covCols := make([]*dataset.Column, len(cfg.CovariateColumns))
	for i, name := range cfg.CovariateColumns {
		col, ok := table.Column(name)
		if !ok {
			return nil, ConfigurationError{Column: name, Role: "covariate"}
		}
		covCols[i] = col
	}

	rows := table.NumRows()
	sample := &Sample{
		CovariateNames: append([]string(nil), cfg.CovariateColumns...),
		RowsBefore:     rows,
	}

	for row := 0; row < rows; row++ {
		if treatCol.Missing[row] || outcomeCol.Missing[row] {
			sample.RowsDropped++
			continue
		}
		complete := true
		for _, col := range covCols {
			if col.Missing[row] {
				complete = false
				break
			}
		}
		if !complete {
			sample.RowsDropped++
			continue
		}

		treatment := 0.0
		if treatCol.Values[row] != 0 {
			treatment = 1
		}
		covariates := make([]float64, len(covCols))
		for i, col := range covCols {
			covariates[i] = col.Values[row]
		}

		sample.Treatment = append(sample.Treatment, treatment)
		sample.Outcome = append(sample.Outcome, outcomeCol.Values[row])
		sample.Covariates = append(sample.Covariates, covariates)
		sample.SourceRows = append(sample.SourceRows, row)
	}

	if sample.NumRows() == 0 {
		return nil, InsufficientDataError{Reason: "no rows left after dropping missing values"}
	}

	return sample, nil
}
