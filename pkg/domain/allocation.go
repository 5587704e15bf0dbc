package domain

import (
	"encoding/json"
	"sort"
)

// Allocation is the set of passive nodes currently taken in one optimization
// run. It is owned exclusively by that run and never shared across runs.
type Allocation map[NodeID]struct{}

// NewAllocation builds an allocation from a list of node IDs.
func NewAllocation(ids ...NodeID) Allocation {
	a := make(Allocation, len(ids))
	for _, id := range ids {
		a[id] = struct{}{}
	}
	return a
}

// Has reports whether the node is allocated.
func (a Allocation) Has(id NodeID) bool {
	_, ok := a[id]
	return ok
}

// Add marks the node as allocated.
func (a Allocation) Add(id NodeID) { a[id] = struct{}{} }

// Remove unmarks the node.
func (a Allocation) Remove(id NodeID) { delete(a, id) }

// Len returns the number of allocated nodes.
func (a Allocation) Len() int { return len(a) }

// Clone returns an independent copy.
func (a Allocation) Clone() Allocation {
	c := make(Allocation, len(a))
	for id := range a {
		c[id] = struct{}{}
	}
	return c
}

// IDs returns the allocated node IDs in ascending order. Deterministic
// ordering matters: candidate generation iterates allocations and must be
// reproducible given identical inputs.
func (a Allocation) IDs() []NodeID {
	ids := make([]NodeID, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MarshalJSON encodes the allocation as a sorted array of node IDs.
func (a Allocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.IDs())
}

// UnmarshalJSON decodes an array of node IDs.
func (a *Allocation) UnmarshalJSON(data []byte) error {
	var ids []NodeID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*a = NewAllocation(ids...)
	return nil
}
