package search

import (
	"math"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// Default termination thresholds.
const (
	// DefaultPatience is how many consecutive non-improving iterations end
	// the search.
	DefaultPatience = 3
	// DefaultMinRelativeDelta is the relative improvement below which an
	// accepted step is judged negligible (0.1%).
	DefaultMinRelativeDelta = 0.001
	// DefaultMaxIterations is the hard ceiling guaranteeing termination.
	DefaultMaxIterations = 600
)

// Convergence tracks the multi-condition stop decision for one run. Three
// independent conditions are OR'd, evaluated once per iteration after the
// best value is updated; the first satisfied condition (in the order
// patience, diminishing returns, iteration cap) determines the reported
// reason. Reset per run. The transition RUNNING -> CONVERGED is one-way.
type Convergence struct {
	patience      int
	minRelDelta   float64
	maxIterations int

	iteration  int
	best       float64
	noImprove  int
	lastDelta  float64
	deltaValid bool
	converged  bool
	reason     domain.ConvergenceReason
}

// NewConvergence creates a detector. Non-positive arguments fall back to the
// defaults.
func NewConvergence(patience, maxIterations int, minRelDelta float64) *Convergence {
	if patience <= 0 {
		patience = DefaultPatience
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if minRelDelta <= 0 {
		minRelDelta = DefaultMinRelativeDelta
	}
	c := &Convergence{patience: patience, maxIterations: maxIterations, minRelDelta: minRelDelta}
	c.Reset()
	return c
}

// Reset returns the detector to its initial RUNNING state.
func (c *Convergence) Reset() {
	c.iteration = 0
	c.best = math.Inf(-1)
	c.noImprove = 0
	c.lastDelta = 0
	c.deltaValid = false
	c.converged = false
	c.reason = ""
}

// Update advances the counters with the best metric after an iteration.
// Once converged, further updates are ignored.
func (c *Convergence) Update(iteration int, bestMetric float64) {
	if c.converged {
		return
	}
	c.iteration = iteration

	if bestMetric > c.best {
		// A strict improvement. The relative delta only exists when the
		// previous best was a positive finite value.
		if !math.IsInf(c.best, -1) && c.best > 0 {
			c.lastDelta = (bestMetric - c.best) / c.best
			c.deltaValid = true
		} else {
			c.deltaValid = false
		}
		c.best = bestMetric
		c.noImprove = 0
	} else {
		c.noImprove++
		c.deltaValid = false
	}

	switch {
	case c.noImprove >= c.patience:
		c.converged = true
		c.reason = domain.ReasonPatience
	case c.deltaValid && c.lastDelta < c.minRelDelta:
		c.converged = true
		c.reason = domain.ReasonDiminishingReturns
	case c.iteration >= c.maxIterations:
		c.converged = true
		c.reason = domain.ReasonIterationCap
	}
}

// HasConverged reports whether a stop condition fired. Pure query.
func (c *Convergence) HasConverged() bool { return c.converged }

// Reason returns the stop condition that fired. Derived from the counters at
// Update time, never inferred after the fact. Empty while running.
func (c *Convergence) Reason() domain.ConvergenceReason { return c.reason }

// Best returns the best metric seen so far.
func (c *Convergence) Best() float64 { return c.best }
