// Package api exposes evaluation results over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fairbench/app"
	"fairbench/internal"
	"fairbench/internal/report"
	"fairbench/ports"
)

// Server serves the latest evaluation report and run history.
type Server struct {
	router *chi.Mux
	ledger ports.RunLedger // optional
	log    *internal.Logger

	mu     sync.RWMutex
	latest *app.EvalReport
}

// NewServer creates the HTTP surface. ledger may be nil.
func NewServer(ledger ports.RunLedger, log *internal.Logger) *Server {
	if log == nil {
		log = internal.DefaultLogger
	}
	s := &Server{
		router: chi.NewRouter(),
		ledger: ledger,
		log:    log,
	}
	s.router.Use(middleware.Recoverer)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/scores", s.handleScores)
	s.router.Get("/report", s.handleReport)
	return s
}

// SetReport publishes the latest evaluation report.
func (s *Server) SetReport(rep *app.EvalReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = rep
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Listen serves until the listener fails.
func (s *Server) Listen(addr string) error {
	s.log.Info("report server listening on %s", addr)
	return http.ListenAndServe(addr, s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest == nil {
		http.Error(w, "no evaluation computed yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(latest); err != nil {
		s.log.Error("encoding scores: %v", err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	var history []ports.RunRecord
	if s.ledger != nil {
		runs, err := s.ledger.ListRuns(r.Context(), 20)
		if err != nil {
			s.log.Warn("listing runs for report: %v", err)
		} else {
			history = runs
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.HTML(latest, history))
}
