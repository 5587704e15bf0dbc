package treedata

import (
	"context"
	"sync"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/ports"
)

// Cache wraps a TreeLoader so only the first Load pays the parse cost; every
// subsequent call returns the same immutable instance. It is an explicit,
// process-constructed dependency rather than hidden global state, so tests
// can build fresh instances freely.
type Cache struct {
	loader ports.TreeLoader

	once sync.Once
	tree *domain.PassiveTree
	err  error
}

// NewCache wraps a loader.
func NewCache(loader ports.TreeLoader) *Cache {
	return &Cache{loader: loader}
}

// Load returns the cached tree, loading it on first use. A load failure is
// cached too: a broken data file does not get re-parsed per call.
func (c *Cache) Load(ctx context.Context) (*domain.PassiveTree, error) {
	c.once.Do(func() {
		c.tree, c.err = c.loader.Load(ctx)
	})
	return c.tree, c.err
}
