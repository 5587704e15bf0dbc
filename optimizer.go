// Package poe2opt is the high-level entry point for the passive-tree build
// optimizer. It wires the tree loader, the stat oracle, the search engine
// and the optional run store behind one facade, so library consumers never
// touch the internal packages.
package poe2opt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/logging"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/search"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/treedata"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/ports"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/runs"
)

// Optimizer is the library facade. One Optimizer serves any number of runs;
// the per-run oracle-session exclusivity is enforced by the run manager.
type Optimizer struct {
	loader ports.TreeLoader
	cache  *treedata.Cache
	oracle ports.StatOracle

	store  ports.RunStore
	locker ports.DistributedLocker
	runs   *runs.Manager

	hooks      domain.SearchHooks
	progress   ports.ProgressFunc
	logger     *slog.Logger
	searchOpts []search.Option
}

// Option defines a functional option for configuring the Optimizer.
type Option func(*Optimizer)

// WithLoader injects a custom tree loader, bypassing the default file loader.
func WithLoader(l ports.TreeLoader) Option {
	return func(o *Optimizer) { o.loader = l }
}

// WithStore enables run persistence: every finished run is saved under its
// run ID.
func WithStore(s ports.RunStore) Option {
	return func(o *Optimizer) { o.store = s }
}

// WithLocker enables cross-replica run locking.
func WithLocker(l ports.DistributedLocker) Option {
	return func(o *Optimizer) { o.locker = l }
}

// WithSearchHooks registers observability hooks for every run.
func WithSearchHooks(hooks domain.SearchHooks) Option {
	return func(o *Optimizer) { o.hooks = hooks }
}

// WithProgress registers the progress callback for every run.
func WithProgress(fn ports.ProgressFunc) Option {
	return func(o *Optimizer) { o.progress = fn }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Optimizer) { o.logger = logger }
}

// WithPatience sets the no-improvement iteration limit.
func WithPatience(n int) Option {
	return func(o *Optimizer) {
		o.searchOpts = append(o.searchOpts, search.WithPatience(n))
	}
}

// WithMaxIterations sets the hard iteration ceiling.
func WithMaxIterations(n int) Option {
	return func(o *Optimizer) {
		o.searchOpts = append(o.searchOpts, search.WithMaxIterations(n))
	}
}

// WithMinRelativeDelta sets the diminishing-returns threshold.
func WithMinRelativeDelta(d float64) Option {
	return func(o *Optimizer) {
		o.searchOpts = append(o.searchOpts, search.WithMinRelativeDelta(d))
	}
}

// WithProgressInterval overrides the progress cadence in iterations.
func WithProgressInterval(n int) Option {
	return func(o *Optimizer) {
		o.searchOpts = append(o.searchOpts, search.WithProgressInterval(n))
	}
}

// New initializes an Optimizer. By default the tree is read from treePath;
// with WithLoader the path may be empty. The oracle session is owned by this
// Optimizer and must not be shared with concurrent runs elsewhere.
func New(treePath string, oracle ports.StatOracle, opts ...Option) (*Optimizer, error) {
	if oracle == nil {
		return nil, fmt.Errorf("a stat oracle is required")
	}

	o := &Optimizer{oracle: oracle}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.loader == nil {
		if treePath == "" {
			return nil, fmt.Errorf("treePath is required when no custom loader is provided")
		}
		o.loader = treedata.NewFileLoader(treePath, o.logger)
	}
	o.cache = treedata.NewCache(o.loader)

	if o.store != nil {
		mgrOpts := []runs.Option{runs.WithLogger(o.logger)}
		if o.locker != nil {
			mgrOpts = append(mgrOpts, runs.WithLocker(o.locker))
		}
		o.runs = runs.NewManager(o.store, mgrOpts...)
	} else if o.locker != nil {
		return nil, fmt.Errorf("a distributed locker requires a run store")
	}

	return o, nil
}

// Tree returns the loaded passive tree, parsing it on first use.
func (o *Optimizer) Tree(ctx context.Context) (*domain.PassiveTree, error) {
	return o.cache.Load(ctx)
}

// Runs returns the run manager, or nil when no store is configured.
func (o *Optimizer) Runs() *runs.Manager {
	return o.runs
}

// Optimize executes one run to termination and returns the best-found
// result. With a store configured, the run executes under its run-ID lock
// and the result is persisted before returning; a cancelled run still saves
// and returns its best-so-far outcome.
func (o *Optimizer) Optimize(ctx context.Context, in domain.RunInput) (*domain.OptimizationResult, error) {
	tree, err := o.cache.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tree: %w", err)
	}

	engine := search.NewEngine(tree, o.oracle, append([]search.Option{
		search.WithLogger(o.logger),
		search.WithHooks(o.hooks),
		search.WithProgress(o.progress),
	}, o.searchOpts...)...)

	if o.runs == nil || in.RunID == "" {
		return engine.Run(ctx, in)
	}

	var result *domain.OptimizationResult
	err = o.runs.WithLock(ctx, in.RunID, func(ctx context.Context) error {
		var runErr error
		result, runErr = engine.Run(ctx, in)
		if runErr != nil {
			return runErr
		}
		return o.runs.Store().Save(ctx, in.RunID, result)
	})
	return result, err
}
