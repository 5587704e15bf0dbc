package domain

import "fmt"

// RespecBudget is a tagged variant: either a finite number of respec points
// or an unlimited pool. Modeling this explicitly (instead of a nullable or
// sentinel integer) removes null-check branches from the ledger logic.
type RespecBudget struct {
	Unlimited bool `json:"unlimited,omitempty"`
	Limit     int  `json:"limit,omitempty"`
}

// LimitedRespec returns a finite respec budget.
func LimitedRespec(n int) RespecBudget { return RespecBudget{Limit: n} }

// UnlimitedRespec returns an unbounded respec budget.
func UnlimitedRespec() RespecBudget { return RespecBudget{Unlimited: true} }

// String renders the available amount, using the explicit "unlimited" token.
func (r RespecBudget) String() string {
	if r.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", r.Limit)
}

// BudgetState is the dual-resource point ledger for one optimization run.
// It is an immutable value: Apply and Revert return new states rather than
// mutating in place, so a rejected candidate can never corrupt the ledger.
//
// Invariant, always: 0 <= UnallocatedUsed <= UnallocatedAvailable, and
// 0 <= RespecUsed (<= Respec.Limit when finite).
type BudgetState struct {
	UnallocatedAvailable int          `json:"unallocated_available"`
	UnallocatedUsed      int          `json:"unallocated_used"`
	Respec               RespecBudget `json:"respec"`
	RespecUsed           int          `json:"respec_used"`
}

// NewBudgetState validates and creates a fresh ledger.
func NewBudgetState(unallocated int, respec RespecBudget) (BudgetState, error) {
	if unallocated < 0 {
		return BudgetState{}, fmt.Errorf("unallocated budget must be >= 0, got %d", unallocated)
	}
	if !respec.Unlimited && respec.Limit < 0 {
		return BudgetState{}, fmt.Errorf("respec budget must be >= 0, got %d", respec.Limit)
	}
	return BudgetState{UnallocatedAvailable: unallocated, Respec: respec}, nil
}

// CanAllocate reports whether `count` more unallocated points can be spent.
func (b BudgetState) CanAllocate(count int) bool {
	return b.UnallocatedUsed+count <= b.UnallocatedAvailable
}

// CanRespec reports whether `count` more respec points can be spent.
func (b BudgetState) CanRespec(count int) bool {
	if b.Respec.Unlimited {
		return true
	}
	return b.RespecUsed+count <= b.Respec.Limit
}

// CanApply reports whether the mutation's costs fit the remaining budgets.
// A SWAP passes both checks; its unallocated cost is zero because the freed
// point is re-spent in place.
func (b BudgetState) CanApply(m TreeMutation) bool {
	switch m.Kind {
	case MutationAdd:
		return b.CanAllocate(m.UnallocatedCost)
	case MutationRemove:
		return b.CanRespec(m.RespecCost)
	case MutationSwap:
		return b.CanAllocate(m.UnallocatedCost) && b.CanRespec(m.RespecCost)
	default:
		return false
	}
}

// Apply returns a new state with the mutation's costs booked. The precondition
// is re-verified here, independently of the generator's own checks: a failure
// at this point is an algorithm bug and surfaces as ErrBudgetViolation rather
// than a normal rejection.
func (b BudgetState) Apply(m TreeMutation) (BudgetState, error) {
	if !b.CanApply(m) {
		return b, fmt.Errorf("apply %s over budget (%s): %w", m, b, ErrBudgetViolation)
	}
	next := b
	next.UnallocatedUsed += m.UnallocatedCost
	next.RespecUsed += m.RespecCost
	return next, nil
}

// Revert returns a new state with the mutation's costs unbooked. It is the
// exact inverse of Apply and fails if the counters would go negative.
func (b BudgetState) Revert(m TreeMutation) (BudgetState, error) {
	if b.UnallocatedUsed < m.UnallocatedCost || b.RespecUsed < m.RespecCost {
		return b, fmt.Errorf("revert %s below zero (%s): %w", m, b, ErrBudgetViolation)
	}
	next := b
	next.UnallocatedUsed -= m.UnallocatedCost
	next.RespecUsed -= m.RespecCost
	return next, nil
}

// BudgetSummary is the reporting view of the ledger.
type BudgetSummary struct {
	UnallocatedUsed      int          `json:"unallocated_used"`
	UnallocatedAvailable int          `json:"unallocated_available"`
	RespecUsed           int          `json:"respec_used"`
	RespecAvailable      RespecBudget `json:"respec_available"`
}

// Summary returns the reporting view. An unlimited respec budget stays an
// explicit token and is never coerced to an integer.
func (b BudgetState) Summary() BudgetSummary {
	return BudgetSummary{
		UnallocatedUsed:      b.UnallocatedUsed,
		UnallocatedAvailable: b.UnallocatedAvailable,
		RespecUsed:           b.RespecUsed,
		RespecAvailable:      b.Respec,
	}
}

// String renders the canonical budget display format.
func (b BudgetState) String() string {
	return fmt.Sprintf("Budget: %d/%d unallocated, %d/%s respec",
		b.UnallocatedUsed, b.UnallocatedAvailable, b.RespecUsed, b.Respec)
}
