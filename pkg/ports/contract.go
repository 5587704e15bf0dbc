package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// RunRunStoreContract is a reusable test suite that verifies a RunStore
// implementation complies with the interface semantics. Adapter tests call
// it with a freshly constructed store.
func RunRunStoreContract(t *testing.T, store RunStore) {
	t.Helper()
	ctx := context.Background()

	sample := &domain.OptimizationResult{
		RunID:      "contract-run",
		Class:      "witch",
		Metric:     domain.MetricDPS,
		Allocation: domain.NewAllocation(1, 2, 3),
		BestMetric: 1234.5,
		Baseline:   1000,
		Iterations: 42,
		Reason:     domain.ReasonPatience,
	}
	sample.Budget, _ = domain.NewBudgetState(10, domain.LimitedRespec(5))

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		if !errors.Is(err, domain.ErrRunNotFound) {
			t.Fatalf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("Save_Load_RoundTrip", func(t *testing.T) {
		if err := store.Save(ctx, sample.RunID, sample); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := store.Load(ctx, sample.RunID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.BestMetric != sample.BestMetric || got.Reason != sample.Reason {
			t.Errorf("result mismatch: got %+v, want %+v", got, sample)
		}
		if got.Allocation.Len() != sample.Allocation.Len() {
			t.Errorf("allocation mismatch: got %v, want %v", got.Allocation.IDs(), sample.Allocation.IDs())
		}
		if got.Budget.String() != sample.Budget.String() {
			t.Errorf("budget mismatch: got %s, want %s", got.Budget, sample.Budget)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		found := false
		for _, id := range ids {
			if id == sample.RunID {
				found = true
			}
		}
		if !found {
			t.Errorf("run %q missing from list %v", sample.RunID, ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, sample.RunID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		_, err := store.Load(ctx, sample.RunID)
		if !errors.Is(err, domain.ErrRunNotFound) {
			t.Fatalf("expected ErrRunNotFound after delete, got %v", err)
		}
	})
}
