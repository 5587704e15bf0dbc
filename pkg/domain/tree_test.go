package domain

import (
	"errors"
	"testing"
)

func testTree(t *testing.T) *PassiveTree {
	t.Helper()
	// 100(witch) - 101 - 102 - 103
	//                \ 104 - 105
	// 200(warrior) - 201, bridge 100-200
	nodes := []PassiveNode{
		{ID: 100, Name: "Witch Start", Kind: NodeKindSmall},
		{ID: 101, Name: "A", Kind: NodeKindSmall},
		{ID: 102, Name: "B", Kind: NodeKindSmall},
		{ID: 103, Name: "C", Kind: NodeKindNotable},
		{ID: 104, Name: "D", Kind: NodeKindSmall},
		{ID: 105, Name: "E", Kind: NodeKindKeystone},
		{ID: 200, Name: "Warrior Start", Kind: NodeKindSmall},
		{ID: 201, Name: "F", Kind: NodeKindSmall},
	}
	edges := map[NodeID][]NodeID{
		100: {101, 200},
		101: {102, 104},
		102: {103},
		104: {105},
		200: {201},
	}
	starts := map[string]NodeID{"witch": 100, "warrior": 200}
	tree, err := NewPassiveTree(nodes, edges, starts)
	if err != nil {
		t.Fatalf("tree construction failed: %v", err)
	}
	return tree
}

func TestNewPassiveTree_Validation(t *testing.T) {
	nodes := []PassiveNode{{ID: 1}, {ID: 2}}
	starts := map[string]NodeID{"witch": 1}

	tests := []struct {
		name   string
		nodes  []PassiveNode
		edges  map[NodeID][]NodeID
		starts map[string]NodeID
	}{
		{
			name:   "duplicate node id",
			nodes:  []PassiveNode{{ID: 1}, {ID: 1}},
			edges:  map[NodeID][]NodeID{},
			starts: starts,
		},
		{
			name:   "dangling edge endpoint",
			nodes:  nodes,
			edges:  map[NodeID][]NodeID{1: {99}},
			starts: starts,
		},
		{
			name:   "self edge",
			nodes:  nodes,
			edges:  map[NodeID][]NodeID{1: {1}},
			starts: starts,
		},
		{
			name:   "no class starts",
			nodes:  nodes,
			edges:  map[NodeID][]NodeID{1: {2}},
			starts: map[string]NodeID{},
		},
		{
			name:   "class start not a node",
			nodes:  nodes,
			edges:  map[NodeID][]NodeID{1: {2}},
			starts: map[string]NodeID{"witch": 42},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPassiveTree(tt.nodes, tt.edges, tt.starts); err == nil {
				t.Fatal("expected construction error, got nil")
			}
		})
	}
}

func TestPassiveTree_SymmetricAdjacency(t *testing.T) {
	tree := testTree(t)

	// The input listed 100 -> 101 only; the reverse edge must exist.
	back, err := tree.Neighbors(101)
	if err != nil {
		t.Fatalf("neighbors failed: %v", err)
	}
	found := false
	for _, n := range back {
		if n == 100 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 100 in neighbors of 101, got %v", back)
	}
}

func TestPassiveTree_NeighborsUnknownNode(t *testing.T) {
	tree := testTree(t)
	if _, err := tree.Neighbors(999); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
}

func TestPassiveTree_ClassStart(t *testing.T) {
	tree := testTree(t)
	start, err := tree.ClassStart("witch")
	if err != nil || start != 100 {
		t.Fatalf("ClassStart(witch) = %d, %v; want 100", start, err)
	}
	if _, err := tree.ClassStart("druid"); !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
}

func TestPassiveTree_IsConnected(t *testing.T) {
	tree := testTree(t)

	tests := []struct {
		name      string
		from, to  NodeID
		allocated Allocation
		want      bool
	}{
		{"direct edge", 100, 101, NewAllocation(), true},
		{"through allocated chain", 100, 103, NewAllocation(101, 102, 103), true},
		{"gap in chain", 100, 103, NewAllocation(102, 103), false},
		{"unallocated midpoints do not count", 100, 105, NewAllocation(105), false},
		{"same node", 101, 101, NewAllocation(101), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.IsConnected(tt.from, tt.to, tt.allocated); got != tt.want {
				t.Errorf("IsConnected(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestPassiveTree_ValidateConnectivity(t *testing.T) {
	tree := testTree(t)

	tests := []struct {
		name      string
		allocated Allocation
		class     string
		want      bool
	}{
		{"empty allocation is legal", NewAllocation(), "witch", true},
		{"contiguous chain", NewAllocation(101, 102, 103), "witch", true},
		{"two branches", NewAllocation(101, 102, 104, 105), "witch", true},
		{"orphan node", NewAllocation(102), "witch", false},
		{"chain with island", NewAllocation(101, 103), "witch", false},
		{"same allocation, other class start", NewAllocation(101), "warrior", false},
		{"cross-class via bridge", NewAllocation(100, 101), "warrior", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tree.ValidateConnectivity(tt.allocated, tt.class)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateConnectivity(%v, %s) = %v, want %v", tt.allocated.IDs(), tt.class, got, tt.want)
			}
		})
	}

	if _, err := tree.ValidateConnectivity(NewAllocation(), "druid"); !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
}
