// internal/match/engine.go
//
// Matching game engine for a single round.
// Responsibilities:
//   - Create rounds from a Config: items shuffled (uniform permutation),
//     targets in stable entry order.
//   - Apply select/place transitions, mutating the round and returning the
//     audio effects the host should perform (no platform calls in here).
//   - Track completion: every item matched and every target at capacity.
//
// Notes:
//   - Placement always resolves through the selected item's identity. When
//     several unplaced items share a key, only the selected one moves.
//   - Correct placements are silent; only wrong or full placements speak.
//     That asymmetry is intentional feedback design, not an omission.

package match

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	mrand "math/rand/v2"

	"github.com/talbenari/wordgarden/internal/audio"
)

const (
	defaultCapacity = 1
	defaultCopies   = 1
	defaultPoints   = 10
	defaultMiss     = "Incorrect answer"

	// completion announcements trail the final placement slightly
	completeDelayMs = 500
)

var (
	ErrNoEntries     = errors.New("match: entry list is empty")
	ErrBadTopology   = errors.New("match: invalid topology")
	ErrUnknownItem   = errors.New("match: unknown item")
	ErrUnknownTarget = errors.New("match: unknown target")
)

// NewRound constructs a round from cfg.
// Fails on an empty entry list: a zero-item round would report itself
// complete vacuously, which is exactly the bug this guards against.
func NewRound(cfg Config) (*Round, error) {
	if len(cfg.Entries) == 0 {
		return nil, ErrNoEntries
	}
	capacity := cfg.TargetCapacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	copies := cfg.CopiesPerKey
	if copies <= 0 {
		copies = defaultCopies
	}
	points := cfg.PointsPerMatch
	if points <= 0 {
		points = defaultPoints
	}
	miss := cfg.MissFeedback
	if miss == "" {
		miss = defaultMiss
	}

	switch cfg.Topology {
	case TopologyPair:
		if capacity != 1 || copies != 1 {
			return nil, ErrBadTopology
		}
	case TopologySlot:
	default:
		return nil, ErrBadTopology
	}

	r := &Round{
		ID:               randomID(),
		Game:             cfg.Game,
		Topology:         cfg.Topology,
		Selected:         -1,
		points:           points,
		toggleDeselect:   cfg.ToggleDeselect,
		clearOnMiss:      cfg.ClearSelectionOnMiss,
		missFeedback:     miss,
		fullFeedback:     cfg.FullFeedback,
		completeFeedback: cfg.CompleteFeedback,
	}

	// Targets keep the entry order; items get stable ids and then a
	// uniform shuffle. Reproducibility is not required.
	for i, e := range cfg.Entries {
		r.Targets = append(r.Targets, Target{
			ID:       i,
			Key:      e.Key,
			Label:    e.TargetLabel,
			Hint:     e.TargetHint,
			Capacity: capacity,
		})
		for c := 0; c < copies; c++ {
			r.Items = append(r.Items, Item{
				ID:      i*copies + c,
				Key:     e.Key,
				Display: e.Display,
				Hint:    e.TargetHint,
			})
		}
	}
	mrand.Shuffle(len(r.Items), func(a, b int) {
		r.Items[a], r.Items[b] = r.Items[b], r.Items[a]
	})
	return r, nil
}

// Select marks an item as the pending selection.
// Already-matched items are ignored without state change or feedback.
// Re-selecting the current item deselects it where the topology allows a
// toggle; otherwise selection simply moves to the clicked item.
func (r *Round) Select(itemID int) ([]audio.Effect, error) {
	item := r.item(itemID)
	if item == nil {
		return nil, ErrUnknownItem
	}
	if item.Matched {
		return nil, nil
	}
	if r.Selected == itemID && r.toggleDeselect {
		r.Selected = -1
		return nil, nil
	}
	r.Selected = itemID
	return []audio.Effect{audio.Speak(item.Display)}, nil
}

// Place attempts to put the selected item into a target.
// Outcomes:
//   - no selection: no-op, no feedback
//   - key match, target below capacity: fill + mark + score, silent
//   - key match, target full: spoken "full" feedback, selection cleared
//   - key mismatch: spoken miss feedback; selection cleared only in
//     clear-on-miss (pair) rounds
func (r *Round) Place(targetID int) ([]audio.Effect, error) {
	target := r.target(targetID)
	if target == nil {
		return nil, ErrUnknownTarget
	}
	if r.Selected < 0 {
		return nil, nil
	}
	item := r.item(r.Selected)

	if item.Key != target.Key {
		if r.clearOnMiss {
			r.Selected = -1
		}
		return []audio.Effect{audio.Speak(r.missFeedback)}, nil
	}

	if target.Filled >= target.Capacity {
		r.Selected = -1
		if r.fullFeedback == "" {
			return nil, nil
		}
		return []audio.Effect{audio.Speak(r.fullFeedback)}, nil
	}

	target.Filled++
	item.Matched = true
	r.Score += r.points
	r.Selected = -1

	if r.Complete() && r.completeFeedback != "" {
		return []audio.Effect{audio.SpeakAfter(r.completeFeedback, completeDelayMs)}, nil
	}
	return nil, nil
}

// Complete reports whether every item is matched and every target filled.
func (r *Round) Complete() bool {
	for i := range r.Items {
		if !r.Items[i].Matched {
			return false
		}
	}
	for i := range r.Targets {
		if r.Targets[i].Filled != r.Targets[i].Capacity {
			return false
		}
	}
	return true
}

// item returns the item with the given id, or nil.
func (r *Round) item(id int) *Item {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return &r.Items[i]
		}
	}
	return nil
}

// target returns the target with the given id, or nil.
func (r *Round) target(id int) *Target {
	for i := range r.Targets {
		if r.Targets[i].ID == id {
			return &r.Targets[i]
		}
	}
	return nil
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
