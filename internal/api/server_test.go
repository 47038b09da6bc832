package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fairbench/app"
	"fairbench/internal/testkit"
	"fairbench/ports"
)

func TestServer_ScoresLifecycle(t *testing.T) {
	s := NewServer(nil, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scores", nil))
	if rec.Code != 404 {
		t.Fatalf("Expected 404 before any evaluation, got %d", rec.Code)
	}

	s.SetReport(&app.EvalReport{Dataset: "synthetic", FTU: 0.25, DemographicParity: 0.5, ComputedAt: time.Now()})

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scores", nil))
	if rec.Code != 200 {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var got app.EvalReport
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decoding scores: %v", err)
	}
	if got.FTU != 0.25 || got.DemographicParity != 0.5 {
		t.Errorf("Unexpected scores: %+v", got)
	}
}

func TestServer_ReportIncludesHistory(t *testing.T) {
	ledger := testkit.NewInMemoryLedger()
	if _, err := ledger.RecordScore(context.Background(), ports.RunKindFTU, "demo", 0.1, time.Second); err != nil {
		t.Fatalf("RecordScore failed: %v", err)
	}
	s := NewServer(ledger, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/report", nil))
	if rec.Code != 200 {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "demo") {
		t.Errorf("Report missing history entry:\n%s", body)
	}
}

func TestServer_Health(t *testing.T) {
	s := NewServer(nil, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 || rec.Body.String() != "ok" {
		t.Errorf("Unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}
