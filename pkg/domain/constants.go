package domain

import "fmt"

// MetricKind selects what the optimizer maximizes.
type MetricKind string

const (
	// MetricDPS maximizes the oracle's reported total damage per second.
	MetricDPS MetricKind = "dps"
	// MetricEHP maximizes life + energy shield. This is an approximation;
	// full mitigation math is out of scope.
	MetricEHP MetricKind = "ehp"
	// MetricBalanced maximizes a weighted blend of normalized DPS and EHP.
	MetricBalanced MetricKind = "balanced"
)

// Balanced metric weights: percentage DPS improvements count for 60%,
// EHP improvements for 40%.
const (
	BalancedDPSWeight = 0.6
	BalancedEHPWeight = 0.4
)

// ParseMetricKind validates a metric name. Unknown names are a caller error
// and fail fast; there is no silent default.
func ParseMetricKind(s string) (MetricKind, error) {
	switch MetricKind(s) {
	case MetricDPS, MetricEHP, MetricBalanced:
		return MetricKind(s), nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownMetric)
	}
}

// levelPassiveBonus is the game-specific constant in the point formula:
// a character of level L has L + levelPassiveBonus passive points in total
// (quest rewards included).
const levelPassiveBonus = 23

// UnallocatedForLevel derives the free point budget from the character level
// and the number of already-allocated nodes. This is the external
// auto-detection helper; the search core itself never consults it and only
// sees the resulting BudgetState.
func UnallocatedForLevel(level, allocated int) int {
	points := level + levelPassiveBonus - allocated
	if points < 0 {
		return 0
	}
	return points
}
