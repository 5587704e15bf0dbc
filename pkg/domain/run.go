package domain

// RunInput bundles everything one optimization run needs from the caller.
// The tree itself, the oracle and the progress callback are injected as
// dependencies of the engine, not carried per run.
type RunInput struct {
	// RunID labels the run for persistence and events. Optional.
	RunID string `json:"run_id,omitempty"`

	// Build is the full build description, including the initial
	// allocation and the class whose start node anchors connectivity.
	Build BuildContext `json:"build"`

	// Budget is the starting point ledger.
	Budget BudgetState `json:"budget"`

	// Metric selects what the run maximizes.
	Metric MetricKind `json:"metric"`
}
