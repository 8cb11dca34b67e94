// internal/reading/engine.go
//
// Reading verification engine: decide whether a spoken transcript satisfies
// a target word or sentence. Drives the reading and sentence-reading games.
//
// Matching is deliberately lenient to tolerate recognizer noise:
//   - word mode accepts equality, containment either way, or the target
//     appearing as a whitespace token of the transcript
//   - sentence mode accepts a >= 0.7 token match ratio or whole containment
//
// The containment fallback can accept clearly wrong answers for very short
// targets (target "I" matches any transcript with an "i" in a token). That
// leniency is a known property of the acceptance contract; tightening it
// would change observable behavior, so it stays.
//
// The engine never talks to a recognizer. The host opens a listening
// session (guarded so overlapping starts are rejected with a wait signal),
// delivers the transcript or a platform error kind, and performs the
// effects each transition returns.

package reading

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/talbenari/wordgarden/internal/audio"
)

// Mode selects acceptance rules and scoring.
type Mode string

const (
	ModeWord     Mode = "word"     // single-token targets, +10
	ModeSentence Mode = "sentence" // multi-token targets, +20
)

const (
	wordPoints     = 10
	sentencePoints = 20

	// story mode bonus for finishing a whole sentence
	storyBonus = 50

	// delayed re-speak of the correct answer after a rejection
	wordRemediationMs     = 1500
	sentenceRemediationMs = 2000

	completeDelayMs = 500

	sentenceMatchRatio = 0.7
)

var (
	ErrNoTargets       = errors.New("reading: target list is empty")
	ErrUnknownTarget   = errors.New("reading: unknown target")
	ErrNoTarget        = errors.New("reading: no target selected")
	ErrRecognitionBusy = errors.New("reading: recognition already running")
)

// Target is one word or sentence to read aloud.
// Attempts counts rejected verifications; Completed flips true exactly once.
type Target struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
	Completed   bool   `json:"completed"`
	Attempts    int    `json:"attempts"`
}

// Round holds the state of one reading playthrough.
// Current is the single mutable selection slot (-1 when none). Listening is
// the single active-recognition flag; it guards overlapping session starts,
// not result delivery.
type Round struct {
	ID        string   `json:"id"`
	Game      string   `json:"game"`
	Mode      Mode     `json:"mode"`
	Targets   []Target `json:"targets"`
	Current   int      `json:"current"`
	Listening bool     `json:"listening"`
	Score     int      `json:"score"`
	Feedback  string   `json:"feedback,omitempty"`

	// story mode: ordered sentences of lowercase words; SentenceAt tracks
	// which sentence the player is working through
	Story      [][]string `json:"story,omitempty"`
	StoryTitle string     `json:"storyTitle,omitempty"`
	SentenceAt int        `json:"sentenceAt"`

	completeFeedback string
}

// Config parameterizes a reading round.
type Config struct {
	Game             string
	Mode             Mode
	Targets          []Target // IDs are assigned by NewRound
	Story            [][]string
	StoryTitle       string
	CompleteFeedback string
}

// NewRound constructs a reading round. Fails on an empty target list.
func NewRound(cfg Config) (*Round, error) {
	if len(cfg.Targets) == 0 {
		return nil, ErrNoTargets
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModeWord
	}
	r := &Round{
		ID:               randomID(),
		Game:             cfg.Game,
		Mode:             mode,
		Current:          -1,
		Story:            cfg.Story,
		StoryTitle:       cfg.StoryTitle,
		completeFeedback: cfg.CompleteFeedback,
	}
	for i, t := range cfg.Targets {
		t.ID = i
		r.Targets = append(r.Targets, t)
	}
	return r, nil
}

// SelectTarget sets the current reading target.
// Completed targets are ignored. When speakIt is true (click; hover hosts
// may pass false) the target text is spoken.
func (r *Round) SelectTarget(targetID int, speakIt bool) ([]audio.Effect, error) {
	t := r.target(targetID)
	if t == nil {
		return nil, ErrUnknownTarget
	}
	if t.Completed {
		return nil, nil
	}
	r.Current = targetID
	r.Feedback = "Click the microphone and read it out loud!"
	if !speakIt {
		return nil, nil
	}
	return []audio.Effect{audio.Speak(t.Text)}, nil
}

// BeginListening opens a recognition session.
// A second start while one is active is rejected with ErrRecognitionBusy:
// the host surfaces a "please wait" message instead of queueing or
// overlapping sessions.
func (r *Round) BeginListening() error {
	if r.Current < 0 {
		return ErrNoTarget
	}
	if r.Listening {
		return ErrRecognitionBusy
	}
	r.Listening = true
	r.Feedback = "Listening... Speak now!"
	return nil
}

// EndListening closes the session flag (the recognizer's end event).
func (r *Round) EndListening() { r.Listening = false }

// Submit verifies a transcript against the current target.
// Accepted: target completed, score bumped, selection cleared; finishing the
// last target completes the round and schedules the announcement. Rejected:
// attempts bumped and a delayed re-speak of the correct text is scheduled as
// a remediation cue.
func (r *Round) Submit(transcript string) (accepted bool, effects []audio.Effect, err error) {
	if r.Current < 0 {
		r.Feedback = "Please select a word first by clicking on it."
		return false, nil, ErrNoTarget
	}
	r.Listening = false
	t := r.target(r.Current)

	if !r.accepts(t.Text, transcript) {
		t.Attempts++
		r.Feedback = "Not quite right. Listen and try again."
		spoken := "Incorrect answer"
		delay := wordRemediationMs
		if r.Mode == ModeSentence {
			spoken = "Try again"
			delay = sentenceRemediationMs
		}
		return false, []audio.Effect{
			audio.Speak(spoken),
			audio.SpeakAfter(t.Text, delay),
		}, nil
	}

	t.Completed = true
	r.Current = -1
	r.Feedback = "Excellent! Great job!"
	if r.Mode == ModeSentence {
		r.Score += sentencePoints
	} else {
		r.Score += wordPoints
	}

	if done, bonus := r.advanceStory(); done {
		effects = append(effects, bonus...)
	}
	if r.Complete() && r.completeFeedback != "" {
		effects = append(effects, audio.SpeakAfter(r.completeFeedback, completeDelayMs))
	}
	return true, effects, nil
}

// RecognitionError folds a platform recognizer failure into user-facing
// feedback. Each kind keeps its own message; they are different conditions
// with different recoveries and must not collapse into one generic error.
func (r *Round) RecognitionError(kind string) {
	r.Listening = false
	switch kind {
	case "no-speech":
		r.Feedback = "No speech detected. Please speak clearly and try again."
	case "not-allowed", "service-not-allowed":
		r.Feedback = "Microphone permission denied. Please allow microphone access in your browser settings."
	case "aborted":
		// deliberate cancellation, nothing to report
	case "network":
		r.Feedback = "Network error. Please check your internet connection."
	case "audio-capture":
		r.Feedback = "No microphone found. Please connect a microphone."
	case "unsupported":
		r.Feedback = "Speech recognition is not available. Please use Chrome or Edge browser."
	default:
		r.Feedback = "Error: " + kind + ". Please try again."
	}
}

// Complete reports whether every target has been read.
func (r *Round) Complete() bool {
	for i := range r.Targets {
		if !r.Targets[i].Completed {
			return false
		}
	}
	return true
}

// RoundID reports the session identifier (store key).
func (r *Round) RoundID() string { return r.ID }

// GameKind reports which configured game this round belongs to.
func (r *Round) GameKind() string { return r.Game }

// accepts applies the mode's fuzzy acceptance rules.
// An empty transcript never matches; containment against "" is vacuous.
func (r *Round) accepts(target, transcript string) bool {
	ct := Normalize(target)
	cu := Normalize(transcript)
	if cu == "" {
		return false
	}
	if r.Mode == ModeSentence {
		return sentenceMatch(ct, cu)
	}
	return wordMatch(ct, cu)
}

// advanceStory checks story-mode sentence completion after an accepted word.
// Completing a sentence pays a bonus and announces it.
func (r *Round) advanceStory() (bool, []audio.Effect) {
	if len(r.Story) == 0 || r.SentenceAt >= len(r.Story) {
		return false, nil
	}
	for _, w := range r.Story[r.SentenceAt] {
		if !r.wordCompleted(w) {
			return false, nil
		}
	}
	r.SentenceAt++
	r.Score += storyBonus
	return true, []audio.Effect{audio.Speak("Great! Sentence complete!")}
}

func (r *Round) wordCompleted(word string) bool {
	for i := range r.Targets {
		if strings.EqualFold(r.Targets[i].Text, word) {
			return r.Targets[i].Completed
		}
	}
	return false
}

func (r *Round) target(id int) *Target {
	for i := range r.Targets {
		if r.Targets[i].ID == id {
			return &r.Targets[i]
		}
	}
	return nil
}

// Normalize lowercases, trims, and strips the fixed punctuation set.
// Idempotent: normalizing a normalized string is a no-op.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ';', ':':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// wordMatch is the word-mode acceptance rule over normalized strings.
func wordMatch(target, transcript string) bool {
	if transcript == target {
		return true
	}
	if strings.Contains(transcript, target) || strings.Contains(target, transcript) {
		return true
	}
	for _, tok := range strings.Fields(transcript) {
		if tok == target {
			return true
		}
	}
	return false
}

// sentenceMatch is the sentence-mode acceptance rule over normalized strings.
// A transcript token matches when it equals, contains, or is contained in
// any target token; accept at >= 70% of target tokens matched, or whole
// containment either way.
func sentenceMatch(target, transcript string) bool {
	if strings.Contains(transcript, target) || strings.Contains(target, transcript) {
		return true
	}
	targetToks := strings.Fields(target)
	if len(targetToks) == 0 {
		return false
	}
	matching := 0
	for _, ut := range strings.Fields(transcript) {
		for _, tt := range targetToks {
			if ut == tt || strings.Contains(ut, tt) || strings.Contains(tt, ut) {
				matching++
				break
			}
		}
	}
	return float64(matching)/float64(len(targetToks)) >= sentenceMatchRatio
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
