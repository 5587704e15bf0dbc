package search

import (
	"log/slog"
	"sort"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/logging"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// Generator enumerates the legal mutations of an allocation. Every returned
// candidate is pre-verified: budget-affordable and connectivity-preserving
// after hypothetical application. Callers never receive an illegal candidate.
type Generator struct {
	tree   *domain.PassiveTree
	logger *slog.Logger
}

// NewGenerator creates a generator bound to one tree.
func NewGenerator(tree *domain.PassiveTree, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{tree: tree, logger: logger}
}

// Generate returns the legal mutations for the allocation, in a fixed,
// reproducible order (ascending node IDs within each move family).
//
// Free-first ordering is correctness-affecting, not cosmetic: while a free
// unallocated point remains, only ADD candidates are yielded. REMOVE and
// SWAP candidates appear only once the unallocated budget is exhausted,
// biasing the search toward free improvements before costly ones.
func (g *Generator) Generate(alloc domain.Allocation, budget domain.BudgetState, class string) ([]domain.TreeMutation, error) {
	start, err := g.tree.ClassStart(class)
	if err != nil {
		return nil, err
	}

	if budget.CanAllocate(1) {
		adds := g.addCandidates(alloc, start)
		return g.verified(adds, alloc, budget, class), nil
	}

	removable := g.safeRemovals(alloc, class)

	var out []domain.TreeMutation
	for _, r := range removable {
		out = append(out, domain.RemoveMutation(r))
	}
	for _, r := range removable {
		reduced := alloc.Clone()
		reduced.Remove(r)
		for _, m := range g.addCandidates(reduced, start) {
			if m.AddNode == r {
				continue
			}
			out = append(out, domain.SwapMutation(r, m.AddNode))
		}
	}
	return g.verified(out, alloc, budget, class), nil
}

// addCandidates returns ADD mutations for every frontier node: an
// unallocated node adjacent to an allocated node or to the class start.
func (g *Generator) addCandidates(alloc domain.Allocation, start domain.NodeID) []domain.TreeMutation {
	frontier := make(map[domain.NodeID]struct{})
	collect := func(id domain.NodeID) {
		neighbors, err := g.tree.Neighbors(id)
		if err != nil {
			// Allocation references a node outside the tree; candidates
			// from it are meaningless. Surfaced by the verify pass.
			g.logger.Warn("allocation references unknown node", "node", int(id))
			return
		}
		for _, n := range neighbors {
			if !alloc.Has(n) && n != start {
				frontier[n] = struct{}{}
			}
		}
	}
	collect(start)
	for _, id := range alloc.IDs() {
		collect(id)
	}

	ids := make([]domain.NodeID, 0, len(frontier))
	for id := range frontier {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.TreeMutation, len(ids))
	for i, id := range ids {
		out[i] = domain.AddMutation(id)
	}
	return out
}

// safeRemovals returns the allocated nodes whose removal keeps every other
// allocated node reachable from the class start, in ascending order.
func (g *Generator) safeRemovals(alloc domain.Allocation, class string) []domain.NodeID {
	var out []domain.NodeID
	for _, id := range alloc.IDs() {
		reduced := alloc.Clone()
		reduced.Remove(id)
		ok, err := g.tree.ValidateConnectivity(reduced, class)
		if err == nil && ok {
			out = append(out, id)
		}
	}
	return out
}

// verified re-checks every candidate against the budget predicate and the
// post-application connectivity invariant. The generation logic above is
// expected to produce only legal candidates already; this guards against
// generator bugs independently of the ledger's own re-check at application
// time.
func (g *Generator) verified(candidates []domain.TreeMutation, alloc domain.Allocation, budget domain.BudgetState, class string) []domain.TreeMutation {
	out := make([]domain.TreeMutation, 0, len(candidates))
	for _, m := range candidates {
		if !budget.CanApply(m) {
			g.logger.Warn("generator produced unaffordable candidate", "mutation", m.String())
			continue
		}
		next := alloc.Clone()
		if err := m.Apply(next); err != nil {
			g.logger.Warn("generator produced inapplicable candidate", "mutation", m.String(), "err", err)
			continue
		}
		ok, err := g.tree.ValidateConnectivity(next, class)
		if err != nil || !ok {
			g.logger.Warn("generator produced disconnecting candidate", "mutation", m.String())
			continue
		}
		out = append(out, m)
	}
	return out
}
