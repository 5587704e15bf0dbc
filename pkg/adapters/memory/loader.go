// Package memory provides in-process adapters: a static tree loader and a
// map-backed run store. Both are safe for concurrent use and are the default
// choice for tests and single-process deployments.
package memory

import (
	"context"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// StaticLoader serves an already-constructed tree. It implements
// ports.TreeLoader for callers that build or parse the tree themselves.
type StaticLoader struct {
	tree *domain.PassiveTree
}

// NewStaticLoader wraps a tree instance.
func NewStaticLoader(tree *domain.PassiveTree) *StaticLoader {
	return &StaticLoader{tree: tree}
}

// Load returns the wrapped tree.
func (l *StaticLoader) Load(ctx context.Context) (*domain.PassiveTree, error) {
	return l.tree, nil
}
