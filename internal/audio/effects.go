// internal/audio/effects.go
//
// Audio effect descriptors returned by engine transitions.
// Engines never touch a speech or audio platform directly: every transition
// yields zero or more Effects that the host (the browser client, via the
// JSON API, or a Gateway in tests) executes. DelayMs schedules an effect
// without blocking the transition that produced it.

package audio

// Effect kinds.
const (
	KindSpeak = "speak"
	KindTone  = "tone"
)

// Effect is one audio side effect to perform after a state transition.
// Speak effects are last-request-wins: executing a new one cancels any
// utterance still playing.
type Effect struct {
	Kind string `json:"type"`

	// Speak fields.
	Text string `json:"text,omitempty"`
	Lang string `json:"lang,omitempty"`

	// Tone fields. A short synthesized sine hit: linear attack to full gain
	// over AttackMs, exponential decay to near-silence by DecayMs.
	Frequency int `json:"frequency,omitempty"`
	AttackMs  int `json:"attackMs,omitempty"`
	DecayMs   int `json:"decayMs,omitempty"`

	// DelayMs defers execution; zero means immediate.
	DelayMs int `json:"delayMs,omitempty"`
}

// DefaultLang is the synthesis/recognition language for all games.
const DefaultLang = "en-US"

// Speak builds an immediate speech effect in the default language.
func Speak(text string) Effect {
	return Effect{Kind: KindSpeak, Text: text, Lang: DefaultLang}
}

// SpeakAfter builds a speech effect deferred by delayMs.
func SpeakAfter(text string, delayMs int) Effect {
	e := Speak(text)
	e.DelayMs = delayMs
	return e
}

// Tone builds an immediate drum-style tone effect.
func Tone(frequency int) Effect {
	return Effect{Kind: KindTone, Frequency: frequency, AttackMs: 10, DecayMs: 100}
}
