// internal/match/types.go
//
// Core type definitions for the matching game engine.
// Defines:
//   - Topology: pair (one item, one unique target) vs slot (shared targets
//     with a fill capacity).
//   - Entry/Config: the data a round is built from.
//   - Item/Target/Round: state for a single playthrough.

package match

// Topology is the cardinality relationship between items and targets.
type Topology string

const (
	// TopologyPair: every item has exactly one unique target, capacity 1.
	// Selection toggles off on re-click and clears on a wrong placement.
	TopologyPair Topology = "pair"

	// TopologySlot: multiple items share a target key, capacity >= 1.
	// Re-selection switches items; selection survives a wrong placement so
	// the player can try another target.
	TopologySlot Topology = "slot"
)

// Entry is one domain value a round is built from.
type Entry struct {
	Key         string // match key shared by items and their target
	Display     string // spoken/shown on the item side (e.g. English term)
	TargetLabel string // shown on the target side (e.g. Hebrew translation)
	TargetHint  string // extra display payload (hex value, emoji), optional
}

// Config parameterizes a round. Everything is data: every matching game is
// an instance of this one engine.
type Config struct {
	Game     string  // game kind, carried into the round for the client
	Entries  []Entry // non-empty domain list
	Topology Topology

	TargetCapacity int // fills per target; 0 means 1
	CopiesPerKey   int // item instances per entry; 0 means 1
	PointsPerMatch int // score increment; 0 means 10

	// Selection policy. Both follow from the topology but stay explicit
	// because the two behaviors are deliberate, distinct UX choices.
	ToggleDeselect       bool // re-clicking the selected item deselects it
	ClearSelectionOnMiss bool // wrong placement drops the selection

	MissFeedback     string // spoken on a wrong placement
	FullFeedback     string // spoken when the target is already at capacity
	CompleteFeedback string // spoken (delayed) when the round completes
}

// Item is one selectable unit. Matched flips true exactly once.
type Item struct {
	ID      int    `json:"id"`
	Key     string `json:"key"`
	Display string `json:"display"`
	Hint    string `json:"hint,omitempty"`
	Matched bool   `json:"matched"`
}

// Target is one destination slot. Complete iff Filled == Capacity.
type Target struct {
	ID       int    `json:"id"`
	Key      string `json:"key"`
	Label    string `json:"label"`
	Hint     string `json:"hint,omitempty"`
	Capacity int    `json:"capacity"`
	Filled   int    `json:"filled"`
}

// Round holds the state of a single matching playthrough.
// Selected is the single mutable selection slot: the id of the pending item,
// or -1 when nothing is selected.
type Round struct {
	ID       string   `json:"id"`
	Game     string   `json:"game"`
	Topology Topology `json:"topology"`
	Items    []Item   `json:"items"`
	Targets  []Target `json:"targets"`
	Selected int      `json:"selected"`
	Score    int      `json:"score"`

	points           int
	toggleDeselect   bool
	clearOnMiss      bool
	missFeedback     string
	fullFeedback     string
	completeFeedback string
}

// RoundID reports the session identifier (store key).
func (r *Round) RoundID() string { return r.ID }

// GameKind reports which configured game this round belongs to.
func (r *Round) GameKind() string { return r.Game }
