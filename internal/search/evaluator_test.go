package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/ports"
)

func staticOracle(stats domain.BuildStats) ports.StatOracle {
	return ports.OracleFunc(func(ctx context.Context, build domain.BuildContext) (domain.BuildStats, error) {
		return stats, nil
	})
}

func TestNewEvaluator_RejectsUnknownMetric(t *testing.T) {
	_, err := NewEvaluator(staticOracle(domain.BuildStats{}), "mana", domain.SearchHooks{}, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownMetric)
}

func TestEvaluate_MetricSelection(t *testing.T) {
	stats := domain.BuildStats{TotalDPS: 500, Life: 300, EnergyShield: 100}

	tests := []struct {
		metric domain.MetricKind
		want   float64
	}{
		{domain.MetricDPS, 500},
		{domain.MetricEHP, 400},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			eval, err := NewEvaluator(staticOracle(stats), tt.metric, domain.SearchHooks{}, nil)
			require.NoError(t, err)
			sc := eval.Evaluate(context.Background(), domain.BuildContext{})
			assert.Equal(t, tt.want, sc.Value)
			assert.False(t, sc.Degraded)
		})
	}
}

func TestEvaluate_OracleErrorBecomesNegInf(t *testing.T) {
	failing := ports.OracleFunc(func(ctx context.Context, build domain.BuildContext) (domain.BuildStats, error) {
		return domain.BuildStats{}, errors.New("calculation service unavailable")
	})
	eval, err := NewEvaluator(failing, domain.MetricDPS, domain.SearchHooks{}, nil)
	require.NoError(t, err)

	sc := eval.Evaluate(context.Background(), domain.BuildContext{})
	assert.True(t, math.IsInf(sc.Value, -1), "a failed candidate must score -Inf")
}

func TestEvaluate_OraclePanicIsContained(t *testing.T) {
	panicking := ports.OracleFunc(func(ctx context.Context, build domain.BuildContext) (domain.BuildStats, error) {
		panic("oracle blew up")
	})
	eval, err := NewEvaluator(panicking, domain.MetricDPS, domain.SearchHooks{}, nil)
	require.NoError(t, err)

	var sc Score
	assert.NotPanics(t, func() {
		sc = eval.Evaluate(context.Background(), domain.BuildContext{})
	})
	assert.True(t, math.IsInf(sc.Value, -1))
}

func TestMeasure_EmitsOracleHook(t *testing.T) {
	var events []*domain.OracleEvent
	hooks := domain.SearchHooks{
		OnOracle: func(ctx context.Context, e *domain.OracleEvent) { events = append(events, e) },
	}

	failing := ports.OracleFunc(func(ctx context.Context, build domain.BuildContext) (domain.BuildStats, error) {
		return domain.BuildStats{}, errors.New("boom")
	})
	eval, err := NewEvaluator(failing, domain.MetricDPS, hooks, nil)
	require.NoError(t, err)

	_, _ = eval.Measure(context.Background(), domain.BuildContext{})
	require.Len(t, events, 1)
	assert.True(t, events[0].IsError)

	okEval, err := NewEvaluator(staticOracle(domain.BuildStats{TotalDPS: 1}), domain.MetricDPS, hooks, nil)
	require.NoError(t, err)
	_, _ = okEval.Measure(context.Background(), domain.BuildContext{})
	require.Len(t, events, 2)
	assert.False(t, events[1].IsError)
}

func TestScoreBalanced_Normalized(t *testing.T) {
	eval, err := NewEvaluator(staticOracle(domain.BuildStats{}), domain.MetricBalanced, domain.SearchHooks{}, nil)
	require.NoError(t, err)
	eval.SetBaseline(domain.BuildStats{TotalDPS: 1000, Life: 500})

	// +10% DPS, +20% EHP: 0.6*0.1 + 0.4*0.2 = 0.14
	sc := eval.ScoreStats(domain.BuildStats{TotalDPS: 1100, Life: 600})
	assert.InDelta(t, 0.14, sc.Value, 1e-9)
	assert.False(t, sc.Degraded)

	// The baseline itself scores zero.
	base := eval.ScoreStats(domain.BuildStats{TotalDPS: 1000, Life: 500})
	assert.InDelta(t, 0.0, base.Value, 1e-9)
}

func TestScoreBalanced_DegradedWithoutBaseline(t *testing.T) {
	eval, err := NewEvaluator(staticOracle(domain.BuildStats{}), domain.MetricBalanced, domain.SearchHooks{}, nil)
	require.NoError(t, err)

	sc := eval.ScoreStats(domain.BuildStats{TotalDPS: 100, Life: 50})
	assert.True(t, sc.Degraded)
	assert.InDelta(t, 0.6*100+0.4*50, sc.Value, 1e-9)
}

func TestScoreBalanced_DegradedWithZeroBaseline(t *testing.T) {
	eval, err := NewEvaluator(staticOracle(domain.BuildStats{}), domain.MetricBalanced, domain.SearchHooks{}, nil)
	require.NoError(t, err)
	eval.SetBaseline(domain.BuildStats{TotalDPS: 0, Life: 500})

	sc := eval.ScoreStats(domain.BuildStats{TotalDPS: 100, Life: 500})
	assert.True(t, sc.Degraded, "a zero-DPS baseline cannot normalize")
}
