package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/ports"
)

func TestRunStore_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, NewRunStore())
}

func TestRunStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore()

	original := &domain.OptimizationResult{
		RunID:      "run-1",
		Class:      "witch",
		Metric:     domain.MetricDPS,
		Allocation: domain.NewAllocation(101, 102),
		BestMetric: 500,
	}
	require.NoError(t, store.Save(ctx, original.RunID, original))

	first, err := store.Load(ctx, original.RunID)
	require.NoError(t, err)
	first.Allocation.Add(999)

	second, err := store.Load(ctx, original.RunID)
	require.NoError(t, err)
	assert.False(t, second.Allocation.Has(999), "mutating a loaded result must not affect the store")
	assert.Equal(t, 2, second.Allocation.Len())
}
