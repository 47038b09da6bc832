package testkit

import (
	"context"
	"sync"
	"time"

	"fairbench/domain/core"
	"fairbench/ports"
)

// InMemoryLedger is a ports.RunLedger backed by a slice, for tests and demos.
type InMemoryLedger struct {
	mu      sync.Mutex
	records []ports.RunRecord
}

// NewInMemoryLedger creates an empty in-memory ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{}
}

// RecordScore persists one fairness-score outcome.
func (l *InMemoryLedger) RecordScore(ctx context.Context, kind ports.RunKind, subject string, score float64, elapsed time.Duration) (core.RunID, error) {
	return l.append(ports.RunRecord{
		Kind:    kind,
		Subject: subject,
		Score:   score,
		Passed:  true,
		Elapsed: elapsed,
	})
}

// RecordNotebookRun persists one notebook execution outcome.
func (l *InMemoryLedger) RecordNotebookRun(ctx context.Context, path string, passed bool, detail string, elapsed time.Duration) (core.RunID, error) {
	return l.append(ports.RunRecord{
		Kind:    ports.RunKindNotebook,
		Subject: path,
		Passed:  passed,
		Detail:  detail,
		Elapsed: elapsed,
	})
}

// ListRuns returns recorded outcomes, newest first.
func (l *InMemoryLedger) ListRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ports.RunRecord, 0, len(l.records))
	for i := len(l.records) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}

func (l *InMemoryLedger) append(rec ports.RunRecord) (core.RunID, error) {
	rec.ID = core.NewRunID()
	rec.CreatedAt = time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return rec.ID, nil
}
