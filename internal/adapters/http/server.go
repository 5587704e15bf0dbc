// Package http exposes the optimizer over a JSON/HTTP API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/runs"
)

// Optimizer is the facade surface the HTTP layer depends on.
type Optimizer interface {
	Optimize(ctx context.Context, in domain.RunInput) (*domain.OptimizationResult, error)
	Tree(ctx context.Context) (*domain.PassiveTree, error)
	Runs() *runs.Manager
}

// Server wires the optimizer into HTTP handlers.
type Server struct {
	opt Optimizer
}

// NewHandler creates the HTTP handler for the optimizer API.
func NewHandler(opt Optimizer) http.Handler {
	s := &Server{opt: opt}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/tree", s.handleTree)
	r.Get("/tree/stats", s.handleTreeStats)

	r.Post("/optimize", s.handleOptimize)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{runID}", s.handleGetRun)
	r.Delete("/runs/{runID}", s.handleDeleteRun)

	return r
}

// respecField accepts either a number or the explicit "unlimited" token.
type respecField struct {
	budget domain.RespecBudget
}

func (f *respecField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "unlimited" {
			return fmt.Errorf("respec must be a number or %q, got %q", "unlimited", s)
		}
		f.budget = domain.UnlimitedRespec()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("respec must be a number or %q", "unlimited")
	}
	f.budget = domain.LimitedRespec(n)
	return nil
}

type optimizeRequest struct {
	RunID      string          `json:"run_id,omitempty"`
	Class      string          `json:"class"`
	Level      int             `json:"level,omitempty"`
	Allocation []domain.NodeID `json:"allocation,omitempty"`
	Items      []string        `json:"items,omitempty"`
	Skills     []string        `json:"skills,omitempty"`
	Metric     string          `json:"metric"`

	// Unallocated defaults to the level formula when omitted.
	Unallocated *int        `json:"unallocated,omitempty"`
	Respec      respecField `json:"respec"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	metric, err := domain.ParseMetricKind(req.Metric)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	alloc := domain.NewAllocation(req.Allocation...)
	unallocated := domain.UnallocatedForLevel(req.Level, alloc.Len())
	if req.Unallocated != nil {
		unallocated = *req.Unallocated
	}
	budget, err := domain.NewBudgetState(unallocated, req.Respec.budget)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.opt.Optimize(r.Context(), domain.RunInput{
		RunID: req.RunID,
		Build: domain.BuildContext{
			Class:      req.Class,
			Level:      req.Level,
			Allocation: alloc,
			Items:      req.Items,
			Skills:     req.Skills,
		},
		Budget: budget,
		Metric: metric,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.opt.Tree(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":   tree.Nodes(),
		"classes": tree.Classes(),
	})
}

func (s *Server) handleTreeStats(w http.ResponseWriter, r *http.Request) {
	tree, err := s.opt.Tree(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":   tree.NodeCount(),
		"edges":   tree.EdgeCount(),
		"classes": tree.Classes(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	mgr := s.opt.Runs()
	if mgr == nil {
		writeError(w, http.StatusNotImplemented, errors.New("run persistence is not configured"))
		return
	}
	ids, err := mgr.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": ids})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	mgr := s.opt.Runs()
	if mgr == nil {
		writeError(w, http.StatusNotImplemented, errors.New("run persistence is not configured"))
		return
	}
	result, err := mgr.Load(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	mgr := s.opt.Runs()
	if mgr == nil {
		writeError(w, http.StatusNotImplemented, errors.New("run persistence is not configured"))
		return
	}
	if err := mgr.Delete(r.Context(), chi.URLParam(r, "runID")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownClass),
		errors.Is(err, domain.ErrUnknownMetric),
		errors.Is(err, domain.ErrUnknownNode),
		errors.Is(err, domain.ErrInvalidAllocation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
