package study

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/synaptica-ai/psmatch/pkg/common/kafka"
	"github.com/synaptica-ai/psmatch/pkg/common/logger"
	"github.com/synaptica-ai/psmatch/pkg/common/models"
	"github.com/synaptica-ai/psmatch/pkg/dataset"
	"github.com/synaptica-ai/psmatch/pkg/psm"
	"gorm.io/datatypes"
)

const (
	EventAnalysisCompleted = "analysis.completed"
	EventAnalysisFailed    = "analysis.failed"
)

// Service wraps the estimator with the platform's run bookkeeping:
// Postgres run records, a Redis result cache, Kafka run events and a
// JSON artifact per run. All three backends are optional; a bare
// service just runs the pipeline and writes the artifact.
type Service struct {
	repo        *Repository
	cache       *ResultCache
	producer    *kafka.Producer
	artifactDir string
}

type Option func(*Service)

func WithRepository(repo *Repository) Option {
	return func(s *Service) {
		s.repo = repo
	}
}

func WithResultCache(cache *ResultCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithProducer(producer *kafka.Producer) Option {
	return func(s *Service) {
		s.producer = producer
	}
}

func NewService(artifactDir string, opts ...Option) (*Service, error) {
	s := &Service{artifactDir: artifactDir}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return nil, err
	}
	return s, nil
}

// Run executes one analysis over an already-loaded table and records
// the outcome. The returned AnalysisRun always reflects the final
// status; the AnalysisResult is nil when the pipeline failed.
func (s *Service) Run(ctx context.Context, cfg StudyConfig, table *dataset.Table) (models.AnalysisRun, *psm.AnalysisResult, error) {
	runID := uuid.New()
	started := time.Now().UTC()

	run := &RunModel{
		ID:        runID,
		StudyName: cfg.Name,
		Config:    datatypes.JSONMap(configMap(cfg)),
		Status:    StatusRunning,
		CreatedAt: started,
		UpdatedAt: started,
		StartedAt: &started,
	}
	if s.repo != nil {
		if err := s.repo.Create(ctx, run); err != nil {
			return models.AnalysisRun{}, nil, fmt.Errorf("failed to record analysis run: %w", err)
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"run_id":     runID.String(),
		"study":      cfg.Name,
		"rows":       table.NumRows(),
		"covariates": len(cfg.CovariateColumns),
	}).Info("Starting analysis run")

	result, err := psm.Run(table, cfg.Pipeline())
	completed := time.Now().UTC()

	if err != nil {
		run.Status = StatusFailed
		run.ErrorMessage = err.Error()
		run.CompletedAt = &completed
		s.finishRun(ctx, run, nil)
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"run_id": runID.String(),
			"stage":  psm.FailedStage(err),
		}).Error("Analysis run failed")
		return toDomain(run), nil, err
	}

	artifactPath, artifactErr := s.writeArtifact(runID, cfg, result)
	if artifactErr != nil {
		logger.Log.WithError(artifactErr).Warn("Failed to write analysis artifact")
	}

	run.Status = StatusCompleted
	run.ArtifactPath = artifactPath
	run.CompletedAt = &completed
	s.finishRun(ctx, run, resultMetrics(result))

	if s.cache != nil {
		s.cache.Put(ctx, runID.String(), result)
	}

	logger.Log.WithFields(map[string]interface{}{
		"run_id":         runID.String(),
		"rows_dropped":   result.RowsDropped,
		"matched_size":   result.MatchedSize,
		"att_naive":      result.ATTNaive,
		"att_regression": result.ATTRegression,
		"warnings":       len(result.Warnings),
	}).Info("Analysis run completed")

	return toDomain(run), result, nil
}

func (s *Service) finishRun(ctx context.Context, run *RunModel, metrics map[string]interface{}) {
	if metrics != nil {
		run.Metrics = datatypes.JSONMap(metrics)
	}
	if s.repo != nil {
		if err := s.repo.UpdateStatus(ctx, run.ID, run.Status, metrics, run.ArtifactPath, run.ErrorMessage); err != nil {
			logger.Log.WithError(err).Error("Failed to update analysis run status")
		}
		if run.CompletedAt != nil {
			if err := s.repo.SetCompleted(ctx, run.ID, *run.CompletedAt); err != nil {
				logger.Log.WithError(err).Error("Failed to set analysis run completion time")
			}
		}
	}
	if s.producer != nil {
		eventType := EventAnalysisCompleted
		data := map[string]interface{}{
			"run_id": run.ID.String(),
			"study":  run.StudyName,
			"status": run.Status,
		}
		if run.Status == StatusFailed {
			eventType = EventAnalysisFailed
			data["error"] = run.ErrorMessage
		} else if metrics != nil {
			data["metrics"] = metrics
		}
		if err := s.producer.PublishEvent(ctx, eventType, "psmatch", data); err != nil {
			logger.Log.WithError(err).Warn("Failed to publish analysis event")
		}
	}
}

func (s *Service) writeArtifact(runID uuid.UUID, cfg StudyConfig, result *psm.AnalysisResult) (string, error) {
	artifact := map[string]interface{}{
		"run_id":     runID.String(),
		"study":      cfg.Name,
		"config":     configMap(cfg),
		"result":     result,
		"created_at": time.Now().UTC(),
	}
	payload, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.artifactDir, fmt.Sprintf("%s.json", runID.String()))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func configMap(cfg StudyConfig) map[string]interface{} {
	covariates := make([]interface{}, len(cfg.CovariateColumns))
	for i, name := range cfg.CovariateColumns {
		covariates[i] = name
	}
	return map[string]interface{}{
		"name":                cfg.Name,
		"treatment_column":    cfg.TreatmentColumn,
		"outcome_column":      cfg.OutcomeColumn,
		"covariate_columns":   covariates,
		"without_replacement": cfg.WithoutReplacement,
		"seed":                cfg.Seed,
	}
}

func resultMetrics(result *psm.AnalysisResult) map[string]interface{} {
	return map[string]interface{}{
		"rows_before":    result.RowsBefore,
		"rows_after":     result.RowsAfter,
		"rows_dropped":   result.RowsDropped,
		"treated_count":  result.TreatedCount,
		"control_count":  result.ControlCount,
		"matched_size":   result.MatchedSize,
		"att_naive":      result.ATTNaive,
		"att_regression": result.ATTRegression,
		"warning_count":  len(result.Warnings),
	}
}
