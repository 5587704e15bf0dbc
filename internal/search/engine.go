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

// DefaultProgressInterval is the progress callback cadence in iterations.
const DefaultProgressInterval = 100

// Engine is the constrained local-search optimizer: it owns the hill-climbing
// loop over legal mutations of one allocation. A single run is strictly
// sequential; candidates within an iteration are scored one at a time because
// the oracle dominates cost and is not assumed reentrant.
type Engine struct {
	tree   *domain.PassiveTree
	oracle ports.StatOracle

	hooks    domain.SearchHooks
	progress ports.ProgressFunc
	logger   *slog.Logger

	patience         int
	maxIterations    int
	minRelDelta      float64
	progressInterval int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithHooks registers search observability hooks.
func WithHooks(hooks domain.SearchHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithProgress registers the progress callback.
func WithProgress(fn ports.ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// WithPatience sets the no-improvement iteration limit.
func WithPatience(n int) Option {
	return func(e *Engine) { e.patience = n }
}

// WithMaxIterations sets the hard iteration ceiling.
func WithMaxIterations(n int) Option {
	return func(e *Engine) { e.maxIterations = n }
}

// WithMinRelativeDelta sets the diminishing-returns threshold.
func WithMinRelativeDelta(d float64) Option {
	return func(e *Engine) { e.minRelDelta = d }
}

// WithProgressInterval overrides the progress cadence (default 100).
func WithProgressInterval(n int) Option {
	return func(e *Engine) { e.progressInterval = n }
}

// NewEngine creates an engine bound to a tree and an oracle session. The
// oracle session must be exclusive to this engine's runs.
func NewEngine(tree *domain.PassiveTree, oracle ports.StatOracle, opts ...Option) *Engine {
	e := &Engine{
		tree:             tree,
		oracle:           oracle,
		logger:           logging.NewNop(),
		progressInterval: DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.progressInterval <= 0 {
		e.progressInterval = DefaultProgressInterval
	}
	return e
}

// Run executes one optimization to termination and returns the best-found
// result. Cancellation is cooperative: the context is checked once per
// iteration boundary (a single oracle call is never interrupted mid-flight),
// and a cancelled run returns its best-so-far result rather than discarding
// progress.
func (e *Engine) Run(ctx context.Context, in domain.RunInput) (*domain.OptimizationResult, error) {
	eval, err := NewEvaluator(e.oracle, in.Metric, e.hooks, e.logger)
	if err != nil {
		return nil, err
	}

	alloc := in.Build.Allocation.Clone()
	if ok, err := e.tree.ValidateConnectivity(alloc, in.Build.Class); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("initial allocation for class %q: %w", in.Build.Class, domain.ErrInvalidAllocation)
	}

	budget := in.Budget
	gen := NewGenerator(e.tree, e.logger)
	conv := NewConvergence(e.patience, e.maxIterations, e.minRelDelta)
	log := e.logger.With("run_id", in.RunID, "class", in.Build.Class, "metric", string(in.Metric))

	started := time.Now()

	// Baseline: score the starting allocation. An oracle failure here is
	// tolerated; the run then starts from -Inf and the first valid
	// candidate is accepted on its own merits.
	best := Score{}
	baseline := 0.0
	if stats, err := eval.Measure(ctx, in.Build.WithAllocation(alloc)); err != nil {
		log.Warn("baseline evaluation failed, starting from -inf", "err", err)
		best = Score{Value: math.Inf(-1)}
	} else {
		eval.SetBaseline(stats)
		best = eval.ScoreStats(stats)
		baseline = best.Value
	}
	degraded := best.Degraded

	log.Info("optimization started",
		"allocated", alloc.Len(),
		"budget", budget.String(),
		"baseline", baseline,
	)

	result := &domain.OptimizationResult{
		RunID:    in.RunID,
		Class:    in.Build.Class,
		Metric:   in.Metric,
		Baseline: baseline,
	}

	iterations := 0
	accepted := 0
	var reason domain.ConvergenceReason

loop:
	for iter := 1; ; iter++ {
		select {
		case <-ctx.Done():
			reason = domain.ReasonCancelled
			break loop
		default:
		}

		candidates, err := gen.Generate(alloc, budget, in.Build.Class)
		if err != nil {
			return nil, fmt.Errorf("neighbor generation: %w", err)
		}
		if len(candidates) == 0 {
			iterations = iter
			reason = domain.ReasonExhausted
			break loop
		}

		// Score every candidate sequentially and keep the single best.
		// Ties keep the earliest candidate, preserving determinism.
		winner := candidates[0]
		winnerScore := Score{Value: math.Inf(-1)}
		for _, m := range candidates {
			next := alloc.Clone()
			if err := m.Apply(next); err != nil {
				return nil, fmt.Errorf("candidate %s: %w", m, err)
			}
			sc := eval.Evaluate(ctx, in.Build.WithAllocation(next))
			if sc.Value > winnerScore.Value {
				winner = m
				winnerScore = sc
			}
		}

		if e.hooks.OnIteration != nil {
			e.hooks.OnIteration(ctx, &domain.IterationEvent{
				EventBase:  eventBase(domain.EventIteration, in.RunID),
				Iteration:  iter,
				Candidates: len(candidates),
				BestMetric: best.Value,
			})
		}

		// Accept only a strict improvement, applying the winning mutation
		// to the allocation and the ledger together. A failure in either
		// application is an algorithm bug, not a rejectable condition.
		if winnerScore.Value > best.Value {
			nextBudget, err := budget.Apply(winner)
			if err != nil {
				return nil, err
			}
			if err := winner.Apply(alloc); err != nil {
				return nil, fmt.Errorf("apply winner %s: %w", winner, err)
			}
			budget = nextBudget

			if e.hooks.OnAccept != nil {
				e.hooks.OnAccept(ctx, &domain.AcceptEvent{
					EventBase: eventBase(domain.EventAccept, in.RunID),
					Iteration: iter,
					Mutation:  winner,
					OldBest:   best.Value,
					NewBest:   winnerScore.Value,
				})
			}
			log.Debug("accepted mutation",
				"iteration", iter,
				"mutation", winner.String(),
				"metric", winnerScore.Value,
			)
			accepted++
			best = winnerScore
			degraded = degraded || winnerScore.Degraded
		}

		conv.Update(iter, best.Value)
		iterations = iter

		if iter == 1 || iter%e.progressInterval == 0 {
			e.emitProgress(iter, best.Value, baseline, budget, started)
		}
		if conv.HasConverged() {
			reason = conv.Reason()
			break loop
		}
	}

	result.Allocation = alloc
	result.Budget = budget
	result.BestMetric = best.Value
	result.Iterations = iterations
	result.Accepted = accepted
	result.Reason = reason
	result.Degraded = degraded
	result.Elapsed = time.Since(started)

	e.emitProgress(iterations, best.Value, baseline, budget, started)
	if e.hooks.OnConverged != nil {
		e.hooks.OnConverged(ctx, &domain.ConvergedEvent{
			EventBase:  eventBase(domain.EventConverged, in.RunID),
			Iterations: iterations,
			BestMetric: best.Value,
			Reason:     reason,
		})
	}
	log.Info("optimization finished",
		"iterations", iterations,
		"accepted", accepted,
		"best", best.Value,
		"reason", string(reason),
		"budget", budget.String(),
	)
	return result, nil
}

func (e *Engine) emitProgress(iteration int, best, baseline float64, budget domain.BudgetState, started time.Time) {
	if e.progress == nil {
		return
	}
	improvement := 0.0
	if baseline > 0 {
		improvement = (best - baseline) / baseline * 100
	}
	e.progress(ports.ProgressUpdate{
		Iteration:      iteration,
		BestMetric:     best,
		ImprovementPct: improvement,
		Budget:         budget.Summary(),
		Elapsed:        time.Since(started),
	})
}

func eventBase(t domain.EventType, runID string) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: runID}
}
