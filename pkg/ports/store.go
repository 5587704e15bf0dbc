package ports

import (
	"context"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// RunStore defines the interface for persisting optimization results.
// This lets a finished (or cancelled) run's best-found outcome survive the
// process, enabling "fire and inspect later" workflows.
type RunStore interface {
	// Save persists the result for a given run ID.
	Save(ctx context.Context, runID string, result *domain.OptimizationResult) error

	// Load retrieves the result for a given run ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.OptimizationResult, error)

	// List returns the known run IDs.
	List(ctx context.Context) ([]string, error)

	// Delete removes the result for a given run ID.
	Delete(ctx context.Context, runID string) error
}
