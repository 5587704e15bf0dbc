package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/logging"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/ports"
)

// Score is one candidate's fitness. Degraded marks a BALANCED score computed
// without a usable baseline: still ordered, but on a non-comparable scale.
type Score struct {
	Value    float64
	Degraded bool
}

// Evaluator scores candidate allocations through the external oracle.
//
// Failure containment is the critical contract here: any oracle failure
// (timeout, internal error, panic, malformed candidate) is converted into a
// negative-infinity score so the strict-improvement rule rejects the
// candidate automatically. Errors never propagate out of Evaluate.
type Evaluator struct {
	oracle   ports.StatOracle
	metric   domain.MetricKind
	baseline *domain.BuildStats
	hooks    domain.SearchHooks
	logger   *slog.Logger
}

// NewEvaluator creates an evaluator for one run. An unrecognized metric kind
// is a caller error and fails fast.
func NewEvaluator(oracle ports.StatOracle, metric domain.MetricKind, hooks domain.SearchHooks, logger *slog.Logger) (*Evaluator, error) {
	if _, err := domain.ParseMetricKind(string(metric)); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Evaluator{oracle: oracle, metric: metric, hooks: hooks, logger: logger}, nil
}

// SetBaseline records the stats of the initial allocation, enabling
// normalized BALANCED scoring.
func (e *Evaluator) SetBaseline(stats domain.BuildStats) {
	e.baseline = &stats
}

// Measure invokes the oracle once, with panic containment and hook emission.
func (e *Evaluator) Measure(ctx context.Context, build domain.BuildContext) (stats domain.BuildStats, err error) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("oracle panic: %v", r)
		}
		if e.hooks.OnOracle != nil {
			e.hooks.OnOracle(ctx, &domain.OracleEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventOracle},
				Duration:  time.Since(started),
				IsError:   err != nil,
			})
		}
	}()
	stats, err = e.oracle.Calculate(ctx, build)
	return stats, err
}

// Evaluate scores one candidate build. Oracle failures become -Inf.
func (e *Evaluator) Evaluate(ctx context.Context, build domain.BuildContext) Score {
	stats, err := e.Measure(ctx, build)
	if err != nil {
		e.logger.Debug("oracle call failed, rejecting candidate", "err", err)
		return Score{Value: math.Inf(-1)}
	}
	return e.ScoreStats(stats)
}

// ScoreStats converts oracle stats into a fitness score for the configured
// metric.
func (e *Evaluator) ScoreStats(stats domain.BuildStats) Score {
	switch e.metric {
	case domain.MetricDPS:
		return Score{Value: stats.TotalDPS}
	case domain.MetricEHP:
		return Score{Value: stats.EHP()}
	default: // domain.MetricBalanced, validated at construction
		return e.scoreBalanced(stats)
	}
}

// scoreBalanced blends normalized DPS and EHP. Normalization expresses both
// as relative improvements over the baseline, making the heterogeneous
// scales comparable. Without a usable baseline the score falls back to an
// unnormalized weighted average and is flagged as degraded.
func (e *Evaluator) scoreBalanced(stats domain.BuildStats) Score {
	if e.baseline == nil || e.baseline.TotalDPS <= 0 || e.baseline.EHP() <= 0 {
		return Score{
			Value:    domain.BalancedDPSWeight*stats.TotalDPS + domain.BalancedEHPWeight*stats.EHP(),
			Degraded: true,
		}
	}
	normDPS := (stats.TotalDPS - e.baseline.TotalDPS) / e.baseline.TotalDPS
	normEHP := (stats.EHP() - e.baseline.EHP()) / e.baseline.EHP()
	return Score{Value: domain.BalancedDPSWeight*normDPS + domain.BalancedEHPWeight*normEHP}
}
