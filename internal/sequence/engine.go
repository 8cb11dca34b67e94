// internal/sequence/engine.go
//
// Sequence replay engine: verify a press stream against a fixed expected
// sequence of keys. Drives the color drum game.
//
// Round construction samples a drum set without replacement from the domain
// keys, then builds the expected sequence by sampling the drum set with
// replacement. Each drum gets its own tone frequency so correct presses are
// audibly distinct. Wrong presses are silent by design; the game's only
// negative feedback is the absence of a drum hit.

package sequence

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	mrand "math/rand/v2"

	"github.com/talbenari/wordgarden/internal/audio"
)

const (
	// DefaultDrums is how many keys a round samples from the domain.
	DefaultDrums = 8

	// Sequence length is uniform in [MinLength, MaxLength].
	MinLength = 5
	MaxLength = 7

	completeDelayMs = 1000
)

// drum tone ladder, one pitch per drum index
var frequencies = []int{80, 100, 120, 140, 160, 180, 200, 220}

var (
	ErrNoKeys     = errors.New("sequence: domain key list is empty")
	ErrUnknownKey = errors.New("sequence: unknown key")
)

// Drum is one pressable unit with its tone pitch and display payload.
type Drum struct {
	ID        int    `json:"id"`
	Key       string `json:"key"`
	Hint      string `json:"hint,omitempty"`
	Frequency int    `json:"frequency"`
}

// Round holds the state of one sequence playthrough.
// Cursor indexes the next expected key; it only ever increases, and the
// round is complete exactly when Cursor == len(Expected).
type Round struct {
	ID       string   `json:"id"`
	Game     string   `json:"game"`
	Drums    []Drum   `json:"drums"`
	Expected []string `json:"expected"`
	Cursor   int      `json:"cursor"`

	completeFeedback string
}

// Config parameterizes a sequence round.
type Config struct {
	Game             string
	Keys             []string          // domain keys, non-empty
	Hints            map[string]string // optional display payload per key
	Drums            int               // drums sampled; 0 means DefaultDrums
	CompleteFeedback string
}

// NewRound samples drums and builds the expected sequence.
func NewRound(cfg Config) (*Round, error) {
	if len(cfg.Keys) == 0 {
		return nil, ErrNoKeys
	}
	drums := cfg.Drums
	if drums <= 0 {
		drums = DefaultDrums
	}
	if drums > len(cfg.Keys) {
		drums = len(cfg.Keys)
	}

	// sample without replacement
	keys := append([]string(nil), cfg.Keys...)
	mrand.Shuffle(len(keys), func(a, b int) { keys[a], keys[b] = keys[b], keys[a] })
	keys = keys[:drums]

	r := &Round{
		ID:               randomID(),
		Game:             cfg.Game,
		completeFeedback: cfg.CompleteFeedback,
	}
	for i, k := range keys {
		r.Drums = append(r.Drums, Drum{
			ID:        i,
			Key:       k,
			Hint:      cfg.Hints[k],
			Frequency: frequencies[i%len(frequencies)],
		})
	}

	// sample with replacement
	length := MinLength + mrand.IntN(MaxLength-MinLength+1)
	for i := 0; i < length; i++ {
		r.Expected = append(r.Expected, keys[mrand.IntN(len(keys))])
	}
	return r, nil
}

// Press applies one key press.
// Correct press: tone effect, cursor advances; completing the sequence also
// schedules the success announcement. Wrong press: silent, no state change.
// Complete rounds ignore presses entirely.
func (r *Round) Press(key string) ([]audio.Effect, error) {
	drum := r.drum(key)
	if drum == nil {
		return nil, ErrUnknownKey
	}
	if r.Complete() {
		return nil, nil
	}
	if key != r.Expected[r.Cursor] {
		return nil, nil
	}

	r.Cursor++
	effects := []audio.Effect{audio.Tone(drum.Frequency)}
	if r.Complete() && r.completeFeedback != "" {
		e := audio.Speak(r.completeFeedback)
		e.DelayMs = completeDelayMs
		effects = append(effects, e)
	}
	return effects, nil
}

// Complete reports whether the full sequence has been replayed.
func (r *Round) Complete() bool { return r.Cursor == len(r.Expected) }

// RoundID reports the session identifier (store key).
func (r *Round) RoundID() string { return r.ID }

// GameKind reports which configured game this round belongs to.
func (r *Round) GameKind() string { return r.Game }

func (r *Round) drum(key string) *Drum {
	for i := range r.Drums {
		if r.Drums[i].Key == key {
			return &r.Drums[i]
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
