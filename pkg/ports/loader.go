package ports

import (
	"context"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// TreeLoader produces the immutable passive tree. Implementations should be
// cheap to call repeatedly; expensive loaders are wrapped in a caching
// decorator so only the first access pays the parse cost.
type TreeLoader interface {
	Load(ctx context.Context) (*domain.PassiveTree, error)
}

// TreeLoaderFunc adapts a plain function to the TreeLoader interface.
type TreeLoaderFunc func(ctx context.Context) (*domain.PassiveTree, error)

// Load implements TreeLoader.
func (f TreeLoaderFunc) Load(ctx context.Context) (*domain.PassiveTree, error) {
	return f(ctx)
}
