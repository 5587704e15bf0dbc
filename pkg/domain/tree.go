package domain

import (
	"fmt"
	"sort"
)

// PassiveTree is the immutable node/edge graph with class start anchors.
// It is loaded once per process and shared read-only between runs; nothing
// mutates it after construction.
type PassiveTree struct {
	nodes       map[NodeID]PassiveNode
	edges       map[NodeID][]NodeID
	classStarts map[string]NodeID
	edgeCount   int
}

// NewPassiveTree validates and assembles a tree from raw parts.
//
// Edges are symmetrized explicitly: if the source data contains A->B without
// B->A, the reverse edge is added rather than the asymmetry being silently
// dropped. Construction fails fast when an edge or class start references a
// node that does not exist.
func NewPassiveTree(nodes []PassiveNode, edges map[NodeID][]NodeID, classStarts map[string]NodeID) (*PassiveTree, error) {
	t := &PassiveTree{
		nodes:       make(map[NodeID]PassiveNode, len(nodes)),
		edges:       make(map[NodeID][]NodeID, len(nodes)),
		classStarts: make(map[string]NodeID, len(classStarts)),
	}

	for _, n := range nodes {
		if _, dup := t.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %d", n.ID)
		}
		t.nodes[n.ID] = n
	}

	adjacency := make(map[NodeID]map[NodeID]struct{}, len(nodes))
	link := func(a, b NodeID) error {
		if _, ok := t.nodes[a]; !ok {
			return fmt.Errorf("edge references node %d: %w", a, ErrUnknownNode)
		}
		if _, ok := t.nodes[b]; !ok {
			return fmt.Errorf("edge references node %d: %w", b, ErrUnknownNode)
		}
		if adjacency[a] == nil {
			adjacency[a] = make(map[NodeID]struct{})
		}
		adjacency[a][b] = struct{}{}
		return nil
	}
	for from, tos := range edges {
		for _, to := range tos {
			if from == to {
				return nil, fmt.Errorf("self edge on node %d", from)
			}
			// Symmetrize: store both directions regardless of the source.
			if err := link(from, to); err != nil {
				return nil, err
			}
			if err := link(to, from); err != nil {
				return nil, err
			}
		}
	}

	for id, set := range adjacency {
		list := make([]NodeID, 0, len(set))
		for n := range set {
			list = append(list, n)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		t.edges[id] = list
		t.edgeCount += len(list)
	}
	t.edgeCount /= 2

	for class, start := range classStarts {
		if _, ok := t.nodes[start]; !ok {
			return nil, fmt.Errorf("class %q start node %d: %w", class, start, ErrUnknownNode)
		}
		t.classStarts[class] = start
	}
	if len(t.classStarts) == 0 {
		return nil, fmt.Errorf("tree has no class start nodes")
	}

	return t, nil
}

// Node returns the node definition for the given ID.
func (t *PassiveTree) Node(id NodeID) (PassiveNode, error) {
	n, ok := t.nodes[id]
	if !ok {
		return PassiveNode{}, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	return n, nil
}

// Neighbors returns the adjacency of a node in ascending ID order.
// It fails for an ID absent from the tree instead of returning an empty set.
func (t *PassiveTree) Neighbors(id NodeID) ([]NodeID, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	return t.edges[id], nil
}

// ClassStart resolves the start node for a class name.
func (t *PassiveTree) ClassStart(class string) (NodeID, error) {
	start, ok := t.classStarts[class]
	if !ok {
		return 0, fmt.Errorf("class %q: %w", class, ErrUnknownClass)
	}
	return start, nil
}

// Classes returns the known class names in sorted order.
func (t *PassiveTree) Classes() []string {
	names := make([]string, 0, len(t.classStarts))
	for c := range t.classStarts {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// NodeCount returns the number of nodes in the tree.
func (t *PassiveTree) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of undirected edges in the tree.
func (t *PassiveTree) EdgeCount() int { return t.edgeCount }

// Nodes returns all node definitions in ascending ID order.
func (t *PassiveTree) Nodes() []PassiveNode {
	ids := make([]NodeID, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]PassiveNode, len(ids))
	for i, id := range ids {
		out[i] = t.nodes[id]
	}
	return out
}

// IsConnected reports whether `to` is reachable from `from` using only edges
// whose both endpoints lie in allocated ∪ {from}. Trivially true when
// from == to. Runs a BFS bounded by the allocation size.
func (t *PassiveTree) IsConnected(from, to NodeID, allocated Allocation) bool {
	if from == to {
		return true
	}
	inScope := func(id NodeID) bool {
		return id == from || allocated.Has(id)
	}
	if !inScope(to) {
		return false
	}

	visited := map[NodeID]struct{}{from: {}}
	queue := []NodeID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range t.edges[cur] {
			if !inScope(next) {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			if next == to {
				return true
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return false
}

// ValidateConnectivity reports whether every allocated node is reachable from
// the class start using only allocated nodes as intermediate hops. The start
// node is an implicit anchor and never needs to be allocated itself. This is
// the structural legality invariant of the whole system: an allocation with
// an orphaned node is illegal.
func (t *PassiveTree) ValidateConnectivity(allocated Allocation, class string) (bool, error) {
	start, err := t.ClassStart(class)
	if err != nil {
		return false, err
	}
	if allocated.Len() == 0 {
		return true, nil
	}

	visited := map[NodeID]struct{}{start: {}}
	queue := []NodeID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range t.edges[cur] {
			if _, seen := visited[next]; seen {
				continue
			}
			if !allocated.Has(next) {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	return reachedCount(visited, allocated) == allocated.Len(), nil
}

func reachedCount(visited map[NodeID]struct{}, allocated Allocation) int {
	n := 0
	for id := range allocated {
		if _, ok := visited[id]; ok {
			n++
		}
	}
	return n
}
