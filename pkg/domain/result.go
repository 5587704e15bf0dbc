package domain

import "time"

// ConvergenceReason names the stop condition that terminated a run.
type ConvergenceReason string

const (
	// ReasonPatience: no strict improvement for N consecutive iterations.
	ReasonPatience ConvergenceReason = "patience"
	// ReasonDiminishingReturns: the last accepted improvement's relative
	// delta fell below the configured threshold.
	ReasonDiminishingReturns ConvergenceReason = "diminishing_returns"
	// ReasonIterationCap: the hard iteration ceiling was reached. This is a
	// normal termination mode, not an error.
	ReasonIterationCap ConvergenceReason = "iteration_cap"
	// ReasonExhausted: no legal neighbor remained (budgets spent or no
	// legal moves left).
	ReasonExhausted ConvergenceReason = "exhausted"
	// ReasonCancelled: the caller's context was cancelled; the best-found
	// result so far is still returned.
	ReasonCancelled ConvergenceReason = "cancelled"
)

// OptimizationResult is the final outcome of one run. Produced once, at
// termination.
type OptimizationResult struct {
	RunID      string            `json:"run_id,omitempty"`
	Class      string            `json:"class"`
	Metric     MetricKind        `json:"metric"`
	Allocation Allocation        `json:"allocation"`
	Budget     BudgetState       `json:"budget"`
	BestMetric float64           `json:"best_metric"`
	Baseline   float64           `json:"baseline"`
	Iterations int               `json:"iterations"`
	Accepted   int               `json:"accepted"`
	Reason     ConvergenceReason `json:"reason"`

	// Degraded marks a BALANCED run that had no usable baseline and fell
	// back to an unnormalized weighted average; its metric values are on a
	// different, non-comparable scale.
	Degraded bool `json:"degraded,omitempty"`

	Elapsed time.Duration `json:"elapsed"`
}

// ImprovementPct returns the relative improvement over the baseline as a
// percentage, or zero when the baseline is not positive.
func (r *OptimizationResult) ImprovementPct() float64 {
	if r.Baseline <= 0 {
		return 0
	}
	return (r.BestMetric - r.Baseline) / r.Baseline * 100
}
