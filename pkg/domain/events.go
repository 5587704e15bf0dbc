package domain

import (
	"context"
	"time"
)

// EventType defines the category of a search event.
type EventType string

const (
	EventIteration EventType = "iteration"
	EventAccept    EventType = "accept"
	EventOracle    EventType = "oracle_call"
	EventConverged EventType = "converged"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// IterationEvent is emitted once per search iteration, after candidate
// selection.
type IterationEvent struct {
	EventBase
	Iteration  int     `json:"iteration"`
	Candidates int     `json:"candidates"`
	BestMetric float64 `json:"best_metric"`
}

// AcceptEvent is emitted when a strictly-improving mutation is applied.
type AcceptEvent struct {
	EventBase
	Iteration int          `json:"iteration"`
	Mutation  TreeMutation `json:"mutation"`
	OldBest   float64      `json:"old_best"`
	NewBest   float64      `json:"new_best"`
}

// OracleEvent is emitted per oracle invocation, including failed ones.
type OracleEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	IsError  bool          `json:"is_error,omitempty"`
}

// ConvergedEvent is emitted exactly once, at run termination.
type ConvergedEvent struct {
	EventBase
	Iterations int               `json:"iterations"`
	BestMetric float64           `json:"best_metric"`
	Reason     ConvergenceReason `json:"reason"`
}

// SearchHooks defines callbacks for search observability. All hooks are
// optional and invoked synchronously on the run's own goroutine; keep them
// cheap.
type SearchHooks struct {
	OnIteration func(context.Context, *IterationEvent)
	OnAccept    func(context.Context, *AcceptEvent)
	OnOracle    func(context.Context, *OracleEvent)
	OnConverged func(context.Context, *ConvergedEvent)
}
