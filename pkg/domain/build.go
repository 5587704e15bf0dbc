package domain

// BuildContext is the full build description handed to the calculation
// oracle: the allocation under evaluation plus everything else the stat
// engine needs (class, level, items, active skills). Items and skills are
// carried as opaque serialized descriptors; decoding them is the oracle's
// concern, not the optimizer's.
type BuildContext struct {
	Class      string     `json:"class"`
	Level      int        `json:"level"`
	Allocation Allocation `json:"allocation"`
	Items      []string   `json:"items,omitempty"`
	Skills     []string   `json:"skills,omitempty"`
}

// WithAllocation returns a copy of the build pointing at a different
// allocation. The slices are shared; they are read-only for the oracle.
func (b BuildContext) WithAllocation(a Allocation) BuildContext {
	b.Allocation = a
	return b
}

// BuildStats is the oracle's answer for one build.
type BuildStats struct {
	TotalDPS     float64 `json:"total_dps"`
	Life         float64 `json:"life"`
	EnergyShield float64 `json:"energy_shield"`
}

// EHP is the MVP effective-hit-pool approximation: life plus energy shield.
func (s BuildStats) EHP() float64 { return s.Life + s.EnergyShield }
