package study

import (
	"fmt"
	"os"

	"github.com/synaptica-ai/psmatch/pkg/psm"
	"gopkg.in/yaml.v3"
)

// StudyConfig names the analysis columns for one study. It is loaded
// once and passed explicitly through the run; nothing reads it from
// global state.
type StudyConfig struct {
	Name               string   `yaml:"name"`
	TreatmentColumn    string   `yaml:"treatment_column"`
	OutcomeColumn      string   `yaml:"outcome_column"`
	CovariateColumns   []string `yaml:"covariate_columns"`
	WithoutReplacement bool     `yaml:"without_replacement"`

	// Seed is reserved for stochastic tie-breaking strategies; the
	// default matcher is deterministic and ignores it.
	Seed int64 `yaml:"seed"`
}

func LoadStudyConfig(path string) (StudyConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return StudyConfig{}, fmt.Errorf("failed to read study config: %w", err)
	}
	var cfg StudyConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return StudyConfig{}, fmt.Errorf("failed to parse study config: %w", err)
	}
	if err := cfg.Pipeline().Validate(); err != nil {
		return StudyConfig{}, fmt.Errorf("invalid study config %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = "unnamed-study"
	}
	return cfg, nil
}

// Pipeline converts the study configuration into the estimator's
// column mapping.
func (c StudyConfig) Pipeline() psm.Config {
	return psm.Config{
		TreatmentColumn:    c.TreatmentColumn,
		OutcomeColumn:      c.OutcomeColumn,
		CovariateColumns:   c.CovariateColumns,
		WithoutReplacement: c.WithoutReplacement,
	}
}
