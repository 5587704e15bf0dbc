package oracle

import (
	"context"
	"fmt"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// NodeEffect is the scripted contribution of one allocated node.
type NodeEffect struct {
	DPS          float64
	Life         float64
	EnergyShield float64
}

// Scripted is a deterministic in-process oracle: each allocated node adds a
// fixed contribution on top of base stats. It implements ports.StatOracle
// and exists for tests, examples and offline experimentation where the real
// calculation service is unavailable.
type Scripted struct {
	base    domain.BuildStats
	effects map[domain.NodeID]NodeEffect

	// failEvery injects a transient failure on every Nth call when > 0.
	failEvery int
	calls     int
}

// ScriptedOption configures the scripted oracle.
type ScriptedOption func(*Scripted)

// WithFailEvery makes every nth Calculate call return an error, exercising
// the search layer's failure tolerance.
func WithFailEvery(n int) ScriptedOption {
	return func(s *Scripted) { s.failEvery = n }
}

// NewScripted creates a scripted oracle from base stats and per-node effects.
func NewScripted(base domain.BuildStats, effects map[domain.NodeID]NodeEffect, opts ...ScriptedOption) *Scripted {
	s := &Scripted{base: base, effects: effects}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate sums the base stats and the effects of every allocated node.
// Unknown nodes contribute nothing, mirroring a calculation engine that
// ignores passives it does not model.
func (s *Scripted) Calculate(ctx context.Context, build domain.BuildContext) (domain.BuildStats, error) {
	s.calls++
	if s.failEvery > 0 && s.calls%s.failEvery == 0 {
		return domain.BuildStats{}, fmt.Errorf("scripted failure on call %d", s.calls)
	}

	stats := s.base
	for _, id := range build.Allocation.IDs() {
		eff, ok := s.effects[id]
		if !ok {
			continue
		}
		stats.TotalDPS += eff.DPS
		stats.Life += eff.Life
		stats.EnergyShield += eff.EnergyShield
	}
	return stats, nil
}

// Calls returns how many times the oracle has been invoked.
func (s *Scripted) Calls() int { return s.calls }
