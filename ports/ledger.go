package ports

import (
	"context"
	"time"

	"fairbench/domain/core"
)

// RunKind labels the unit of work a ledger record describes.
type RunKind string

const (
	RunKindFTU               RunKind = "ftu"
	RunKindDemographicParity RunKind = "demographic_parity"
	RunKindNotebook          RunKind = "notebook"
)

// RunRecord is one persisted evaluation outcome.
type RunRecord struct {
	ID        core.RunID    `json:"id"`
	Kind      RunKind       `json:"kind"`
	Subject   string        `json:"subject"` // dataset name or notebook path
	Score     float64       `json:"score"`   // fairness score; 0 for notebook runs
	Passed    bool          `json:"passed"`
	Detail    string        `json:"detail,omitempty"` // failure text, if any
	Elapsed   time.Duration `json:"elapsed"`
	CreatedAt time.Time     `json:"created_at"`
}

// RunLedger records evaluation outcomes for later inspection.
type RunLedger interface {
	// RecordScore persists one fairness-score outcome.
	RecordScore(ctx context.Context, kind RunKind, subject string, score float64, elapsed time.Duration) (core.RunID, error)

	// RecordNotebookRun persists one notebook execution outcome.
	RecordNotebookRun(ctx context.Context, path string, passed bool, detail string, elapsed time.Duration) (core.RunID, error)

	// ListRuns returns recorded outcomes, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
