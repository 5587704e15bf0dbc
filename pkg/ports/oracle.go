package ports

import (
	"context"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// StatOracle is the external black-box calculation engine the optimizer
// scores candidates against. It is invoked thousands of times per run and is
// assumed occasionally unreliable or slow; callers must treat any error as a
// per-candidate failure, never as a run-fatal condition.
//
// An oracle session is not assumed safely reentrant: each concurrent
// optimization run must own an exclusive oracle instance.
type StatOracle interface {
	// Calculate computes the stats for a full build description. The
	// context carries the per-call deadline.
	Calculate(ctx context.Context, build domain.BuildContext) (domain.BuildStats, error)
}

// OracleFunc adapts a plain function to the StatOracle interface.
type OracleFunc func(ctx context.Context, build domain.BuildContext) (domain.BuildStats, error)

// Calculate implements StatOracle.
func (f OracleFunc) Calculate(ctx context.Context, build domain.BuildContext) (domain.BuildStats, error) {
	return f(ctx, build)
}
