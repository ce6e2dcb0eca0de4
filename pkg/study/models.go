package study

import (
	"time"

	"github.com/google/uuid"
	"github.com/synaptica-ai/psmatch/pkg/common/models"
	"gorm.io/datatypes"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type RunModel struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey;column:id"`
	StudyName    string            `gorm:"column:study_name"`
	Config       datatypes.JSONMap `gorm:"column:config"`
	Status       string            `gorm:"column:status"`
	Metrics      datatypes.JSONMap `gorm:"column:metrics"`
	ArtifactPath string            `gorm:"column:artifact_path"`
	ErrorMessage string            `gorm:"column:error_message"`
	CreatedAt    time.Time         `gorm:"column:created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at"`
	StartedAt    *time.Time        `gorm:"column:started_at"`
	CompletedAt  *time.Time        `gorm:"column:completed_at"`
}

func (RunModel) TableName() string {
	return "analysis_runs"
}

func toDomain(run *RunModel) models.AnalysisRun {
	result := models.AnalysisRun{
		ID:           run.ID,
		StudyName:    run.StudyName,
		Status:       run.Status,
		ArtifactPath: run.ArtifactPath,
		ErrorMessage: run.ErrorMessage,
		CreatedAt:    run.CreatedAt,
		StartedAt:    run.StartedAt,
		CompletedAt:  run.CompletedAt,
	}
	if run.Config != nil {
		result.Config = map[string]interface{}(run.Config)
	}
	if run.Metrics != nil {
		result.Metrics = map[string]interface{}(run.Metrics)
	}
	return result
}
