package domain

// NodeID identifies a single passive node in the tree.
type NodeID int

// NodeKind constants classify passive nodes. The search logic treats all
// kinds the same; they are carried for display and reporting.
const (
	// NodeKindSmall is a minor passive (small stat bonus).
	NodeKindSmall = "small"
	// NodeKindNotable is a named medium passive.
	NodeKindNotable = "notable"
	// NodeKindKeystone is a build-defining passive.
	NodeKindKeystone = "keystone"
	// NodeKindMastery is a mastery selector node.
	NodeKindMastery = "mastery"
)

// PassiveNode is one node of the passive tree. Instances are created once at
// graph load and never mutated afterwards.
type PassiveNode struct {
	ID   NodeID `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`

	// Stats holds the raw stat-modifier lines granted by this node.
	Stats []string `json:"stats,omitempty"`

	// Position is the display placement. It is not consulted by any search
	// logic, only carried for rendering tools.
	Position Position `json:"position"`
}

// Position is a display coordinate pair.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
