package study

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/synaptica-ai/psmatch/pkg/common/logger"
	"github.com/synaptica-ai/psmatch/pkg/dataset"
	"github.com/synaptica-ai/psmatch/pkg/psm"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.NewTable()
	if err := table.AddColumn("prior_dx", []float64{1, 1, 0, 0}, nil); err != nil {
		t.Fatal(err)
	}
	if err := table.AddColumn("readmit_30d", []float64{1, 0, 0, 1}, nil); err != nil {
		t.Fatal(err)
	}
	if err := table.AddColumn("age", []float64{50, 60, 52, 61}, nil); err != nil {
		t.Fatal(err)
	}
	return table
}

func testStudyConfig() StudyConfig {
	return StudyConfig{
		Name:             "unit-test-study",
		TreatmentColumn:  "prior_dx",
		OutcomeColumn:    "readmit_30d",
		CovariateColumns: []string{"age"},
	}
}

func TestServiceRunWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	service, err := NewService(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run, result, err := service.Run(context.Background(), testStudyConfig(), testTable(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != StatusCompleted {
		t.Fatalf("expected completed run, got %s", run.Status)
	}
	if result == nil || result.MatchedSize != 4 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if run.ArtifactPath == "" {
		t.Fatal("expected artifact path on the run record")
	}

	content, err := os.ReadFile(run.ArtifactPath)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	var artifact map[string]interface{}
	if err := json.Unmarshal(content, &artifact); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if artifact["study"] != "unit-test-study" {
		t.Fatalf("unexpected artifact study name: %v", artifact["study"])
	}
	if artifact["result"] == nil {
		t.Fatal("expected result in artifact")
	}
}

func TestServiceRunReportsFailure(t *testing.T) {
	service, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := testStudyConfig()
	cfg.TreatmentColumn = "no_such_column"

	run, result, err := service.Run(context.Background(), cfg, testTable(t))
	if err == nil {
		t.Fatal("expected error for absent treatment column")
	}
	if result != nil {
		t.Fatal("expected no result on failure")
	}
	if run.Status != StatusFailed {
		t.Fatalf("expected failed run, got %s", run.Status)
	}
	if run.ErrorMessage == "" {
		t.Fatal("expected error message on the run record")
	}
	if psm.FailedStage(err) != psm.StageSelect {
		t.Fatalf("expected column-select failure, got %v", err)
	}
}
