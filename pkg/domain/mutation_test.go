package domain

import (
	"reflect"
	"testing"
)

func TestTreeMutation_Apply(t *testing.T) {
	tests := []struct {
		name     string
		mutation TreeMutation
		start    Allocation
		want     []NodeID
		wantErr  bool
	}{
		{"add", AddMutation(5), NewAllocation(1), []NodeID{1, 5}, false},
		{"add taken node", AddMutation(1), NewAllocation(1), nil, true},
		{"remove", RemoveMutation(1), NewAllocation(1, 2), []NodeID{2}, false},
		{"remove absent node", RemoveMutation(5), NewAllocation(1), nil, true},
		{"swap", SwapMutation(1, 5), NewAllocation(1, 2), []NodeID{2, 5}, false},
		{"swap absent source", SwapMutation(5, 6), NewAllocation(1), nil, true},
		{"swap taken target", SwapMutation(1, 2), NewAllocation(1, 2), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.start.Clone()
			err := tt.mutation.Apply(a)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(a.IDs(), tt.want) {
				t.Errorf("allocation = %v, want %v", a.IDs(), tt.want)
			}
		})
	}
}

func TestTreeMutation_InverseRestoresAllocation(t *testing.T) {
	mutations := []TreeMutation{
		AddMutation(5),
		RemoveMutation(2),
		SwapMutation(2, 7),
	}
	for _, m := range mutations {
		t.Run(m.String(), func(t *testing.T) {
			original := NewAllocation(1, 2, 3)
			working := original.Clone()

			if err := m.Apply(working); err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if err := m.Inverse().Apply(working); err != nil {
				t.Fatalf("inverse apply failed: %v", err)
			}
			if !reflect.DeepEqual(working.IDs(), original.IDs()) {
				t.Errorf("round trip changed the allocation: %v != %v", working.IDs(), original.IDs())
			}
		})
	}
}

func TestTreeMutation_Costs(t *testing.T) {
	if m := AddMutation(1); m.UnallocatedCost != 1 || m.RespecCost != 0 {
		t.Errorf("add costs %d/%d, want 1/0", m.UnallocatedCost, m.RespecCost)
	}
	if m := RemoveMutation(1); m.UnallocatedCost != 0 || m.RespecCost != 1 {
		t.Errorf("remove costs %d/%d, want 0/1", m.UnallocatedCost, m.RespecCost)
	}
	if m := SwapMutation(1, 2); m.UnallocatedCost != 0 || m.RespecCost != 1 {
		t.Errorf("swap costs %d/%d, want 0/1", m.UnallocatedCost, m.RespecCost)
	}
}
