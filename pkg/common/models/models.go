package models

import (
	"time"

	"github.com/google/uuid"
)

// Event bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // analysis.completed, analysis.failed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// AnalysisRun is the cross-package view of one estimator run: what the
// repository stores, what the event bus announces, and what the runner
// prints.
type AnalysisRun struct {
	ID           uuid.UUID              `json:"id"`
	StudyName    string                 `json:"study_name"`
	Status       string                 `json:"status"`
	Config       map[string]interface{} `json:"config,omitempty"`
	Metrics      map[string]interface{} `json:"metrics,omitempty"`
	ArtifactPath string                 `json:"artifact_path,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	StartedAt    *time.Time             `json:"started_at,omitempty"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
}
