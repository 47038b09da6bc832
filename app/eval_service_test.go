package app

import (
	"context"
	"testing"

	"fairbench/internal/fairness"
	"fairbench/internal/testkit"
	"fairbench/ports"
)

func TestEvalService_Evaluate(t *testing.T) {
	if testing.Short() {
		t.Skip("trains full boosted ensembles")
	}
	loader := testkit.NewSyntheticLoader(testkit.SyntheticOptions{
		Rows:      300,
		Groups:    2,
		GroupBias: 1.0,
		Seed:      8,
	})
	ledger := testkit.NewInMemoryLedger()
	svc := NewEvalService(fairness.NewScorer(), ledger, nil)

	report, err := svc.Evaluate(context.Background(), "synthetic", loader)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if report.FTU < 0 || report.FTU > 1 {
		t.Errorf("FTU out of [0,1]: %v", report.FTU)
	}
	if report.DemographicParity < 0 || report.DemographicParity > 1 {
		t.Errorf("Demographic parity out of [0,1]: %v", report.DemographicParity)
	}

	runs, err := ledger.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 ledger records, got %d", len(runs))
	}
	kinds := map[ports.RunKind]bool{}
	for _, run := range runs {
		kinds[run.Kind] = true
		if run.Subject != "synthetic" {
			t.Errorf("Unexpected subject %q", run.Subject)
		}
	}
	if !kinds[ports.RunKindFTU] || !kinds[ports.RunKindDemographicParity] {
		t.Errorf("Missing run kinds: %v", kinds)
	}
}

func TestEvalService_PropagatesScorerErrors(t *testing.T) {
	// A single-group dataset is degenerate for both metrics.
	loader := testkit.NewSyntheticLoader(testkit.SyntheticOptions{
		Rows:   100,
		Groups: 1,
		Seed:   8,
	})
	svc := NewEvalService(fairness.NewScorer(), nil, nil)

	if _, err := svc.Evaluate(context.Background(), "degenerate", loader); err == nil {
		t.Fatal("Expected error for constant sensitive feature")
	}
}
