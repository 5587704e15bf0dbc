package runs

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/adapters/memory"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

func TestManager_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(memory.NewRunStore())

	result := &domain.OptimizationResult{
		RunID:      "run-1",
		Class:      "witch",
		Metric:     domain.MetricEHP,
		Allocation: domain.NewAllocation(101),
		BestMetric: 200,
	}
	require.NoError(t, mgr.Save(ctx, result.RunID, result))

	got, err := mgr.Load(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.BestMetric, got.BestMetric)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, result.RunID)

	require.NoError(t, mgr.Delete(ctx, result.RunID))
	_, err = mgr.Load(ctx, result.RunID)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestManager_LoadMissing(t *testing.T) {
	mgr := NewManager(memory.NewRunStore())
	_, err := mgr.Load(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestManager_WithLockSerializesPerRun(t *testing.T) {
	mgr := NewManager(memory.NewRunStore())
	ctx := context.Background()

	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := mgr.WithLock(ctx, "same-run", func(ctx context.Context) error {
				// Unsynchronized increment; the run lock is the only guard.
				counter++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
	mgr.mu.Lock()
	assert.Empty(t, mgr.locks, "lock entries must be garbage collected")
	mgr.mu.Unlock()
}
