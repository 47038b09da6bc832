// Package app wires the fairness scorers, ledger, and reporting together.
package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"fairbench/internal"
	"fairbench/internal/fairness"
	"fairbench/ports"
)

// EvalReport is the outcome of one dataset evaluation.
type EvalReport struct {
	Dataset           string        `json:"dataset"`
	FTU               float64       `json:"ftu"`
	DemographicParity float64       `json:"demographic_parity"`
	FTUElapsed        time.Duration `json:"ftu_elapsed"`
	ParityElapsed     time.Duration `json:"parity_elapsed"`
	ComputedAt        time.Time     `json:"computed_at"`
}

// EvalService computes both fairness metrics for a loader and records the
// outcomes. The two metrics are independent computations over independent
// splits and models, so they run concurrently.
type EvalService struct {
	scorer *fairness.Scorer
	ledger ports.RunLedger // optional
	log    *internal.Logger
}

// NewEvalService creates an evaluation service. ledger may be nil.
func NewEvalService(scorer *fairness.Scorer, ledger ports.RunLedger, log *internal.Logger) *EvalService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &EvalService{scorer: scorer, ledger: ledger, log: log}
}

// Evaluate computes FTU and demographic parity for the loader. A failure of
// either metric fails the evaluation.
func (s *EvalService) Evaluate(ctx context.Context, subject string, loader ports.Loader) (*EvalReport, error) {
	report := &EvalReport{Dataset: subject, ComputedAt: time.Now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		score, err := s.scorer.FTUScore(loader)
		if err != nil {
			return err
		}
		report.FTU = score
		report.FTUElapsed = time.Since(start)
		s.record(gctx, ports.RunKindFTU, subject, score, report.FTUElapsed)
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		score, err := s.scorer.DemographicParityScore(loader)
		if err != nil {
			return err
		}
		report.DemographicParity = score
		report.ParityElapsed = time.Since(start)
		s.record(gctx, ports.RunKindDemographicParity, subject, score, report.ParityElapsed)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info("evaluated %s: ftu=%.4f parity=%.4f", subject, report.FTU, report.DemographicParity)
	return report, nil
}

// record persists one score; ledger failures are logged, not fatal to the
// evaluation.
func (s *EvalService) record(ctx context.Context, kind ports.RunKind, subject string, score float64, elapsed time.Duration) {
	if s.ledger == nil {
		return
	}
	if _, err := s.ledger.RecordScore(ctx, kind, subject, score, elapsed); err != nil {
		s.log.Warn("recording %s score for %s failed: %v", kind, subject, err)
	}
}
