package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// RunStore implements ports.RunStore with an in-process map. Results are
// copied on save and load so callers can never alias the stored value.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.OptimizationResult
}

// NewRunStore creates an empty in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]domain.OptimizationResult)}
}

// Save stores a copy of the result under the run ID.
func (s *RunStore) Save(ctx context.Context, runID string, result *domain.OptimizationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *result
	stored.Allocation = result.Allocation.Clone()
	s.runs[runID] = stored
	return nil
}

// Load returns a copy of the stored result.
func (s *RunStore) Load(ctx context.Context, runID string) (*domain.OptimizationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.runs[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	out := stored
	out.Allocation = stored.Allocation.Clone()
	return &out, nil
}

// List returns the known run IDs in lexical order.
func (s *RunStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the run. Deleting an absent run is a no-op.
func (s *RunStore) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.runs, runID)
	return nil
}
