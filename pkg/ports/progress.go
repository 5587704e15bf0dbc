package ports

import (
	"time"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// ProgressUpdate is a snapshot of a running search, emitted at a fixed
// cadence (every 100 iterations, plus always at iteration 1 and at
// termination).
type ProgressUpdate struct {
	Iteration      int                  `json:"iteration"`
	BestMetric     float64              `json:"best_metric"`
	ImprovementPct float64              `json:"improvement_pct"`
	Budget         domain.BudgetSummary `json:"budget"`
	Elapsed        time.Duration        `json:"elapsed"`
}

// ProgressFunc receives progress updates. It is called synchronously and
// best-effort; a nil callback is a safe no-op.
type ProgressFunc func(ProgressUpdate)
