// internal/audio/gateway.go
//
// Speech gateway boundary. The production gateway is the browser's speech
// stack, reached through the JSON API; hosts that execute effects in-process
// (tests, a future desktop shell) implement Gateway instead. Absence of a
// capability degrades by dropping the effect, never by failing.

package audio

// Gateway abstracts the platform speech/audio capabilities.
type Gateway interface {
	// Speak cancels any in-flight utterance and queues exactly one new one.
	Speak(text, lang string)

	// PlayTone plays a short synthesized tone at the given frequency.
	PlayTone(frequency int)

	// CanSynthesize reports whether speech synthesis is available.
	CanSynthesize() bool

	// CanRecognize reports whether speech recognition is available.
	CanRecognize() bool
}

// Run executes effects against a gateway, skipping what the platform
// cannot do. Delays are the host's business; Run executes in order.
func Run(gw Gateway, effects []Effect) {
	for _, e := range effects {
		switch e.Kind {
		case KindSpeak:
			if gw.CanSynthesize() {
				gw.Speak(e.Text, e.Lang)
			}
		case KindTone:
			gw.PlayTone(e.Frequency)
		}
	}
}

// Noop is a Gateway for platforms with no audio at all.
type Noop struct{}

func (Noop) Speak(string, string) {}
func (Noop) PlayTone(int)         {}
func (Noop) CanSynthesize() bool  { return false }
func (Noop) CanRecognize() bool   { return false }

// Recorder is a test Gateway that captures everything it is asked to play.
type Recorder struct {
	Spoken []string
	Tones  []int
}

func (r *Recorder) Speak(text, _ string) { r.Spoken = append(r.Spoken, text) }
func (r *Recorder) PlayTone(f int)       { r.Tones = append(r.Tones, f) }
func (r *Recorder) CanSynthesize() bool  { return true }
func (r *Recorder) CanRecognize() bool   { return true }
