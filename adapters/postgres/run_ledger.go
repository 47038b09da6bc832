// Package postgres persists evaluation outcomes to PostgreSQL.
package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"fairbench/domain/core"
	"fairbench/internal/errors"
	"fairbench/ports"
)

// RunLedgerImpl implements ports.RunLedger for PostgreSQL
type RunLedgerImpl struct {
	db *sqlx.DB
}

// NewRunLedger creates a new PostgreSQL run ledger
func NewRunLedger(db *sqlx.DB) ports.RunLedger {
	return &RunLedgerImpl{db: db}
}

// Connect opens a PostgreSQL connection and ensures the schema exists
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ensuring eval_runs schema")
	}
	return db, nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS eval_runs (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL,
		subject TEXT NOT NULL,
		score DOUBLE PRECISION NOT NULL DEFAULT 0,
		passed BOOLEAN NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		elapsed_ms BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// RecordScore persists one fairness-score outcome
func (r *RunLedgerImpl) RecordScore(ctx context.Context, kind ports.RunKind, subject string, score float64, elapsed time.Duration) (core.RunID, error) {
	id := core.NewRunID()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO eval_runs (id, kind, subject, score, passed, detail, elapsed_ms)
		VALUES ($1, $2, $3, $4, TRUE, '', $5)`,
		id.String(), string(kind), subject, score, elapsed.Milliseconds())
	if err != nil {
		return "", errors.Wrap(err, "recording score")
	}
	return id, nil
}

// RecordNotebookRun persists one notebook execution outcome
func (r *RunLedgerImpl) RecordNotebookRun(ctx context.Context, path string, passed bool, detail string, elapsed time.Duration) (core.RunID, error) {
	id := core.NewRunID()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO eval_runs (id, kind, subject, score, passed, detail, elapsed_ms)
		VALUES ($1, $2, $3, 0, $4, $5, $6)`,
		id.String(), string(ports.RunKindNotebook), path, passed, detail, elapsed.Milliseconds())
	if err != nil {
		return "", errors.Wrap(err, "recording notebook run")
	}
	return id, nil
}

// ListRuns returns recorded outcomes, newest first
func (r *RunLedgerImpl) ListRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows := []struct {
		ID        string    `db:"id"`
		Kind      string    `db:"kind"`
		Subject   string    `db:"subject"`
		Score     float64   `db:"score"`
		Passed    bool      `db:"passed"`
		Detail    string    `db:"detail"`
		ElapsedMS int64     `db:"elapsed_ms"`
		CreatedAt time.Time `db:"created_at"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, kind, subject, score, passed, detail, elapsed_ms, created_at
		FROM eval_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}

	out := make([]ports.RunRecord, len(rows))
	for i, row := range rows {
		out[i] = ports.RunRecord{
			ID:        core.RunID(row.ID),
			Kind:      ports.RunKind(row.Kind),
			Subject:   row.Subject,
			Score:     row.Score,
			Passed:    row.Passed,
			Detail:    row.Detail,
			Elapsed:   time.Duration(row.ElapsedMS) * time.Millisecond,
			CreatedAt: row.CreatedAt,
		}
	}
	return out, nil
}
