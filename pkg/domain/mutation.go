package domain

import "fmt"

// MutationKind constants name the three legal move families.
const (
	// MutationAdd allocates a frontier node. Costs one unallocated point.
	MutationAdd = "add"
	// MutationRemove deallocates a non-cut node. Costs one respec point.
	MutationRemove = "remove"
	// MutationSwap relocates a point: a paired REMOVE + ADD. Costs one
	// respec point; the freed point is re-spent in place, so no unallocated
	// point is consumed.
	MutationSwap = "swap"
)

// TreeMutation describes one candidate change to an allocation. It is an
// immutable value object: created by the neighbor generator, consumed once
// by the optimizer.
type TreeMutation struct {
	Kind string `json:"kind"`

	// AddNode is the node being allocated (ADD and SWAP).
	AddNode NodeID `json:"add_node,omitempty"`
	// RemoveNode is the node being deallocated (REMOVE and SWAP).
	RemoveNode NodeID `json:"remove_node,omitempty"`

	UnallocatedCost int `json:"unallocated_cost"`
	RespecCost      int `json:"respec_cost"`
}

// AddMutation builds an ADD candidate.
func AddMutation(id NodeID) TreeMutation {
	return TreeMutation{Kind: MutationAdd, AddNode: id, UnallocatedCost: 1}
}

// RemoveMutation builds a REMOVE candidate.
func RemoveMutation(id NodeID) TreeMutation {
	return TreeMutation{Kind: MutationRemove, RemoveNode: id, RespecCost: 1}
}

// SwapMutation builds a SWAP candidate relocating a point from `remove`
// to `add`.
func SwapMutation(remove, add NodeID) TreeMutation {
	return TreeMutation{
		Kind:       MutationSwap,
		AddNode:    add,
		RemoveNode: remove,
		RespecCost: 1,
	}
}

// Apply mutates the allocation in place. It fails when the mutation does not
// fit the allocation's current contents (adding a taken node, removing an
// absent one); that is a generator bug, not a user condition.
func (m TreeMutation) Apply(a Allocation) error {
	switch m.Kind {
	case MutationAdd:
		if a.Has(m.AddNode) {
			return fmt.Errorf("add node %d already allocated", m.AddNode)
		}
		a.Add(m.AddNode)
	case MutationRemove:
		if !a.Has(m.RemoveNode) {
			return fmt.Errorf("remove node %d not allocated", m.RemoveNode)
		}
		a.Remove(m.RemoveNode)
	case MutationSwap:
		if !a.Has(m.RemoveNode) {
			return fmt.Errorf("swap source %d not allocated", m.RemoveNode)
		}
		if a.Has(m.AddNode) {
			return fmt.Errorf("swap target %d already allocated", m.AddNode)
		}
		a.Remove(m.RemoveNode)
		a.Add(m.AddNode)
	default:
		return fmt.Errorf("unknown mutation kind %q", m.Kind)
	}
	return nil
}

// Inverse returns the mutation that undoes this one on the allocation.
// It restores node membership only; restoring the ledger exactly is done
// with BudgetState.Revert on the original mutation, not by applying the
// inverse's own costs.
func (m TreeMutation) Inverse() TreeMutation {
	switch m.Kind {
	case MutationAdd:
		return RemoveMutation(m.AddNode)
	case MutationRemove:
		return AddMutation(m.RemoveNode)
	default:
		return SwapMutation(m.AddNode, m.RemoveNode)
	}
}

// String renders a compact human-readable form for logs.
func (m TreeMutation) String() string {
	switch m.Kind {
	case MutationAdd:
		return fmt.Sprintf("add(%d)", m.AddNode)
	case MutationRemove:
		return fmt.Sprintf("remove(%d)", m.RemoveNode)
	case MutationSwap:
		return fmt.Sprintf("swap(%d->%d)", m.RemoveNode, m.AddNode)
	default:
		return fmt.Sprintf("unknown(%q)", m.Kind)
	}
}
