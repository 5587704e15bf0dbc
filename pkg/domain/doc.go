/*
Package domain contains the core domain models for the passive-tree optimizer.

It defines the fundamental entities of the search: the immutable PassiveTree
graph, the mutable Allocation, the dual-resource BudgetState ledger, and the
TreeMutation value objects the optimizer evaluates. This package is kept pure
and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - PassiveTree: the immutable node/edge graph with class start anchors.
  - Allocation: the set of currently taken nodes in one optimization run.
  - BudgetState: the unallocated/respec point ledger (functional updates).
  - TreeMutation: one candidate change (ADD, REMOVE or SWAP) with its costs.
  - OptimizationResult: the final outcome of a run, with a convergence reason.
*/
package domain
