// Package observability wires search events into Prometheus metrics. The
// collectors attach to a run through domain.SearchHooks, so the search layer
// stays free of any metrics dependency.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// Metrics holds the optimizer's Prometheus collectors.
type Metrics struct {
	iterations    *prometheus.CounterVec
	accepted      *prometheus.CounterVec
	oracleCalls   *prometheus.CounterVec
	oracleLatency prometheus.Histogram
	converged     *prometheus.CounterVec
	bestMetric    *prometheus.GaugeVec
}

// NewMetrics creates and registers the collectors on the given registerer.
// Pass prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poe2opt_iterations_total",
				Help: "Total number of search iterations",
			},
			[]string{"metric"},
		),
		accepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poe2opt_accepted_mutations_total",
				Help: "Accepted mutations by move kind",
			},
			[]string{"kind"},
		),
		oracleCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poe2opt_oracle_calls_total",
				Help: "Oracle invocations by outcome",
			},
			[]string{"outcome"},
		),
		oracleLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "poe2opt_oracle_duration_seconds",
				Help:    "Duration of oracle calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		converged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poe2opt_runs_converged_total",
				Help: "Finished runs by convergence reason",
			},
			[]string{"reason"},
		),
		bestMetric: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "poe2opt_best_metric",
				Help: "Best metric value found per run",
			},
			[]string{"run_id"},
		),
	}
	reg.MustRegister(
		m.iterations,
		m.accepted,
		m.oracleCalls,
		m.oracleLatency,
		m.converged,
		m.bestMetric,
	)
	return m
}

// Hooks returns SearchHooks that record into the collectors. The returned
// hooks chain onto `next`, so callers can stack metrics with their own hooks.
func (m *Metrics) Hooks(next domain.SearchHooks) domain.SearchHooks {
	return domain.SearchHooks{
		OnIteration: func(ctx context.Context, e *domain.IterationEvent) {
			m.iterations.WithLabelValues("all").Inc()
			if next.OnIteration != nil {
				next.OnIteration(ctx, e)
			}
		},
		OnAccept: func(ctx context.Context, e *domain.AcceptEvent) {
			m.accepted.WithLabelValues(e.Mutation.Kind).Inc()
			if next.OnAccept != nil {
				next.OnAccept(ctx, e)
			}
		},
		OnOracle: func(ctx context.Context, e *domain.OracleEvent) {
			outcome := "ok"
			if e.IsError {
				outcome = "error"
			}
			m.oracleCalls.WithLabelValues(outcome).Inc()
			m.oracleLatency.Observe(e.Duration.Seconds())
			if next.OnOracle != nil {
				next.OnOracle(ctx, e)
			}
		},
		OnConverged: func(ctx context.Context, e *domain.ConvergedEvent) {
			m.converged.WithLabelValues(string(e.Reason)).Inc()
			m.bestMetric.WithLabelValues(e.RunID).Set(e.BestMetric)
			if next.OnConverged != nil {
				next.OnConverged(ctx, e)
			}
		},
	}
}
