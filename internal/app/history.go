package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/opsbench/setup/internal/domain/provision"
)

// StepRecord is one step's outcome inside a RunRecord.
type StepRecord struct {
	Step     string `json:"step"`
	Outcome  string `json:"outcome"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// RunRecord is one line of the run history, serialized as JSON.
type RunRecord struct {
	ID        string       `json:"id"`
	Phase     string       `json:"phase"`
	StartedAt time.Time    `json:"started_at"`
	Duration  string       `json:"duration"`
	DryRun    bool         `json:"dry_run,omitempty"`
	Steps     []StepRecord `json:"steps"`
}

// NewRunRecord builds a RunRecord with a fresh run ID.
func NewRunRecord(phase string, startedAt time.Time, total time.Duration, dryRun bool, results []provision.StepResult) RunRecord {
	rec := RunRecord{
		ID:        uuid.NewString(),
		Phase:     phase,
		StartedAt: startedAt.UTC(),
		Duration:  total.Round(time.Millisecond).String(),
		DryRun:    dryRun,
	}
	for _, r := range results {
		sr := StepRecord{
			Step:     r.ID().String(),
			Outcome:  r.Outcome().String(),
			Duration: r.Duration().Round(time.Millisecond).String(),
		}
		if err := r.Err(); err != nil {
			sr.Error = err.Error()
		}
		rec.Steps = append(rec.Steps, sr)
	}
	return rec
}

// HistoryPath returns the default history location, ~/.setup/history.jsonl.
func HistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".setup", "history.jsonl"), nil
}

// AppendHistory appends one record to the JSONL history file, creating the
// parent directory on first use.
func AppendHistory(path string, rec RunRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding history record: %w", err)
	}
	line = append(line, '\n')

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}
