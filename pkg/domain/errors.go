package domain

import "errors"

// ErrUnknownNode is returned when a node ID is not present in the tree.
// Lookups never silently return empty adjacency; that would mask
// data-loading bugs.
var ErrUnknownNode = errors.New("unknown node")

// ErrUnknownClass is returned when a class name has no start node.
var ErrUnknownClass = errors.New("unknown class")

// ErrUnknownMetric is returned for an unrecognized metric kind. Callers must
// fail fast rather than silently defaulting to a metric.
var ErrUnknownMetric = errors.New("unknown metric kind")

// ErrBudgetViolation signals that a mutation was applied despite failing its
// own precondition. This is a defensive assertion: it indicates an algorithm
// bug, not a rejectable user condition.
var ErrBudgetViolation = errors.New("budget violation")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrInvalidAllocation is returned when an allocation breaks the structural
// legality invariant (a node not reachable from the class start).
var ErrInvalidAllocation = errors.New("invalid allocation")
