// internal/games/catalog.go
//
// Game catalog: every playable game is a data configuration over one of the
// three engines (match, sequence, reading). This is the only place game
// rules live; the HTTP layer just routes operations to rounds.
//
// Kinds:
//   word-match, sentence-match          pair matching (English <-> Hebrew)
//   color-bottle, action-words          slot matching, capacity 2, 2 copies
//   color-match                         pair matching, names onto swatches
//   animal-cave                         slot matching, capacity 1
//   days-of-week, months                slot matching onto ordered slots
//   color-drum                          sequence replay
//   reading, sentence-reading           spoken verification
//
// color-bottle chains into color-match: its completion announcement invites
// the second phase, and the host starts a color-match round in response.

package games

import (
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"strings"

	"github.com/talbenari/wordgarden/internal/match"
	"github.com/talbenari/wordgarden/internal/reading"
	"github.com/talbenari/wordgarden/internal/sequence"
	"github.com/talbenari/wordgarden/internal/store"
	"github.com/talbenari/wordgarden/internal/vocab"
)

// Game kinds accepted by New.
const (
	KindWordMatch       = "word-match"
	KindSentenceMatch   = "sentence-match"
	KindColorBottle     = "color-bottle"
	KindColorMatch      = "color-match"
	KindAnimalCave      = "animal-cave"
	KindActionWords     = "action-words"
	KindDaysOfWeek      = "days-of-week"
	KindMonths          = "months"
	KindColorDrum       = "color-drum"
	KindReading         = "reading"
	KindSentenceReading = "sentence-reading"
)

// Kinds lists every playable game kind.
var Kinds = []string{
	KindWordMatch, KindSentenceMatch, KindColorBottle, KindColorMatch,
	KindAnimalCave, KindActionWords, KindDaysOfWeek, KindMonths,
	KindColorDrum, KindReading, KindSentenceReading,
}

var ErrUnknownKind = errors.New("games: unknown game kind")

// how many entries the sampled games draw per round
const roundSample = 8

// sentence-match draws up to this many words per generated set
const sentenceWords = 10

// Options narrows the dataset a round is built from. All fields optional;
// zero values fall back to each game's default sampling.
type Options struct {
	ListID   int          `json:"listId,omitempty"`   // word-match: one practice list
	ListIDs  []int        `json:"listIds,omitempty"`  // sentence-match: source lists
	Category string       `json:"category,omitempty"` // reading games: category name
	StoryID  string       `json:"storyId,omitempty"`  // reading: story mode
	Pairs    []vocab.Pair `json:"pairs,omitempty"`    // word-match: custom pairs (My List, saved lists)
}

// sentence templates for the generated sentence-matching game
var sentenceTemplates = []struct{ english, hebrew string }{
	{"I like {word}", "אני אוהב {word}"},
	{"I have {word}", "יש לי {word}"},
	{"This is {word}", "זה {word}"},
	{"I want {word}", "אני רוצה {word}"},
	{"I see {word}", "אני רואה {word}"},
	{"I need {word}", "אני צריך {word}"},
	{"I love {word}", "אני אוהב {word}"},
	{"Where is {word}?", "איפה {word}?"},
	{"What is {word}?", "מה זה {word}?"},
	{"I go to {word}", "אני הולך ל{word}"},
}

// New builds a fresh round for the given game kind.
func New(kind string, opt Options) (store.Round, error) {
	switch kind {
	case KindWordMatch:
		return newWordMatch(opt)
	case KindSentenceMatch:
		return newSentenceMatch(opt)
	case KindColorBottle:
		return newColorBottle()
	case KindColorMatch:
		return newColorMatch()
	case KindAnimalCave:
		return newAnimalCave()
	case KindActionWords:
		return newActionWords()
	case KindDaysOfWeek:
		return newOrderedSlots(KindDaysOfWeek, vocab.Days,
			"Great job! Now let's learn the months of the year!")
	case KindMonths:
		return newOrderedSlots(KindMonths, vocab.Months,
			"Congratulations! You know the whole calendar!")
	case KindColorDrum:
		return newColorDrum()
	case KindReading:
		return newReading(opt)
	case KindSentenceReading:
		return newSentenceReading(opt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// newWordMatch pairs English terms with Hebrew translations.
// Sources, in priority order: explicit pairs (custom/saved lists), a
// practice list by id, or the first practice list.
func newWordMatch(opt Options) (*match.Round, error) {
	pairs := opt.Pairs
	if len(pairs) == 0 {
		id := opt.ListID
		if id == 0 {
			id = 1
		}
		list, ok := vocab.ListByID(id)
		if !ok {
			return nil, fmt.Errorf("games: no vocabulary list %d", opt.ListID)
		}
		pairs = list.Pairs
	}
	return match.NewRound(pairConfig(KindWordMatch, pairs,
		"Congratulations! You matched all the words!"))
}

// newSentenceMatch generates sentence pairs from templates over the words
// of the chosen practice lists, then plays them as pair matching.
func newSentenceMatch(opt Options) (*match.Round, error) {
	var words []vocab.Pair
	if len(opt.ListIDs) == 0 {
		words = vocab.Pairs()
	} else {
		for _, id := range opt.ListIDs {
			list, ok := vocab.ListByID(id)
			if !ok {
				return nil, fmt.Errorf("games: no vocabulary list %d", id)
			}
			words = append(words, list.Pairs...)
		}
	}

	// skip terms that read badly inside a template
	usable := words[:0:0]
	for _, p := range words {
		if strings.Contains(p.Term, "…") || strings.Contains(p.Term, "...") ||
			strings.ContainsAny(p.Term, "[?!") || len(p.Term) > 30 {
			continue
		}
		usable = append(usable, p)
	}
	usable = samplePairs(usable, sentenceWords)

	var pairs []vocab.Pair
	for _, p := range usable {
		t := sentenceTemplates[mrand.IntN(len(sentenceTemplates))]
		pairs = append(pairs, vocab.Pair{
			Term:        strings.Replace(t.english, "{word}", p.Term, 1),
			Translation: strings.TrimSpace(strings.Replace(t.hebrew, "{word}", p.Translation, 1)),
		})
	}
	return match.NewRound(pairConfig(KindSentenceMatch, pairs,
		"Congratulations! You matched all the sentences!"))
}

// newColorBottle: pour two bottles of each color into its labeled target
// bottle. Every color plays; targets hold two fills.
func newColorBottle() (*match.Round, error) {
	var entries []match.Entry
	for _, c := range vocab.Colors() {
		entries = append(entries, match.Entry{
			Key:         c.Name,
			Display:     c.Name,
			TargetLabel: c.Name,
			TargetHint:  c.Hex,
		})
	}
	return match.NewRound(match.Config{
		Game:           KindColorBottle,
		Entries:        entries,
		Topology:       match.TopologySlot,
		TargetCapacity: 2,
		CopiesPerKey:   2,
		FullFeedback:   "Bottle is full",
		CompleteFeedback: "Congratulations! You finished successfully! All bottles are empty! " +
			"Now let's match color names to colors!",
	})
}

// newColorMatch is the bottles' second phase: drag each color name onto
// its swatch. Targets carry the hex value and no spoken label.
func newColorMatch() (*match.Round, error) {
	var entries []match.Entry
	for _, c := range vocab.Colors() {
		entries = append(entries, match.Entry{
			Key:        c.Name,
			Display:    c.Name,
			TargetHint: c.Hex,
		})
	}
	return match.NewRound(match.Config{
		Game:                 KindColorMatch,
		Entries:              entries,
		Topology:             match.TopologyPair,
		ToggleDeselect:       true,
		ClearSelectionOnMiss: true,
		CompleteFeedback:     "Excellent! You matched all the colors correctly!",
	})
}

// newAnimalCave: lead eight sampled animals home, one per cave.
func newAnimalCave() (*match.Round, error) {
	animals := append([]vocab.Animal(nil), vocab.Animals()...)
	mrand.Shuffle(len(animals), func(a, b int) { animals[a], animals[b] = animals[b], animals[a] })
	if len(animals) > roundSample {
		animals = animals[:roundSample]
	}
	var entries []match.Entry
	for _, a := range animals {
		entries = append(entries, match.Entry{
			Key:         a.Name,
			Display:     a.Name,
			TargetLabel: a.Name,
			TargetHint:  a.Emoji,
		})
	}
	return match.NewRound(match.Config{
		Game:             KindAnimalCave,
		Entries:          entries,
		Topology:         match.TopologySlot,
		CompleteFeedback: "Congratulations! All the animals are home!",
	})
}

// newActionWords: two English copies of eight sampled verbs go into the
// bucket labeled with the Hebrew translation.
func newActionWords() (*match.Round, error) {
	verbs := samplePairs(vocab.Actions(), roundSample)
	var entries []match.Entry
	for _, v := range verbs {
		entries = append(entries, match.Entry{
			Key:         v.Term,
			Display:     v.Term,
			TargetLabel: v.Translation,
		})
	}
	return match.NewRound(match.Config{
		Game:             KindActionWords,
		Entries:          entries,
		Topology:         match.TopologySlot,
		TargetCapacity:   2,
		CopiesPerKey:     2,
		FullFeedback:     "Bucket is full",
		CompleteFeedback: "Congratulations! You collected all the flowers!",
	})
}

// newOrderedSlots: place shuffled names into their numbered calendar slots.
func newOrderedSlots(kind string, names []string, congrats string) (*match.Round, error) {
	var entries []match.Entry
	for i, n := range names {
		entries = append(entries, match.Entry{
			Key:         n,
			Display:     n,
			TargetLabel: fmt.Sprintf("%d", i+1),
		})
	}
	return match.NewRound(match.Config{
		Game:             kind,
		Entries:          entries,
		Topology:         match.TopologySlot,
		CompleteFeedback: congrats,
	})
}

// newColorDrum: replay a 5-7 long color sequence on eight sampled drums.
func newColorDrum() (*sequence.Round, error) {
	var keys []string
	hints := make(map[string]string)
	for _, c := range vocab.Colors() {
		keys = append(keys, c.Name)
		hints[c.Name] = c.Hex
	}
	return sequence.NewRound(sequence.Config{
		Game:             KindColorDrum,
		Keys:             keys,
		Hints:            hints,
		CompleteFeedback: "Congratulations! You completed the sequence!",
	})
}

// newReading: read category words (or a story's words) out loud.
func newReading(opt Options) (*reading.Round, error) {
	cfg := reading.Config{
		Game:             KindReading,
		Mode:             reading.ModeWord,
		CompleteFeedback: "Congratulations! You read all the words!",
	}

	if opt.StoryID != "" {
		story, ok := vocab.StoryByID(opt.StoryID)
		if !ok {
			return nil, fmt.Errorf("games: no story %q", opt.StoryID)
		}
		seen := make(map[string]struct{})
		for _, sentence := range story.Sentences {
			for _, w := range sentence {
				if _, dup := seen[w]; dup {
					continue
				}
				seen[w] = struct{}{}
				cfg.Targets = append(cfg.Targets, reading.Target{
					Text:        w,
					Translation: vocab.StoryTranslation(w),
				})
			}
		}
		cfg.Story = story.Sentences
		cfg.StoryTitle = story.Title
		return reading.NewRound(cfg)
	}

	name := opt.Category
	if name == "" && len(vocab.Categories()) > 0 {
		name = vocab.Categories()[0].Name
	}
	cat, ok := vocab.CategoryByName(name)
	if !ok {
		return nil, fmt.Errorf("games: no reading category %q", name)
	}
	for _, p := range cat.Pairs {
		cfg.Targets = append(cfg.Targets, reading.Target{Text: p.Term, Translation: p.Translation})
	}
	return reading.NewRound(cfg)
}

// newSentenceReading: read category sentences out loud.
func newSentenceReading(opt Options) (*reading.Round, error) {
	name := opt.Category
	if name == "" && len(vocab.SentenceCategories()) > 0 {
		name = vocab.SentenceCategories()[0].Name
	}
	cat, ok := vocab.SentenceCategoryByName(name)
	if !ok {
		return nil, fmt.Errorf("games: no sentence category %q", name)
	}
	cfg := reading.Config{
		Game:             KindSentenceReading,
		Mode:             reading.ModeSentence,
		CompleteFeedback: "Congratulations! You read all the sentences!",
	}
	for _, p := range cat.Pairs {
		cfg.Targets = append(cfg.Targets, reading.Target{Text: p.Term, Translation: p.Translation})
	}
	return reading.NewRound(cfg)
}

// pairConfig is the shared two-column pair-matching configuration.
func pairConfig(kind string, pairs []vocab.Pair, congrats string) match.Config {
	var entries []match.Entry
	for _, p := range pairs {
		entries = append(entries, match.Entry{
			Key:         p.Term,
			Display:     p.Term,
			TargetLabel: p.Translation,
		})
	}
	return match.Config{
		Game:                 kind,
		Entries:              entries,
		Topology:             match.TopologyPair,
		ToggleDeselect:       true,
		ClearSelectionOnMiss: true,
		CompleteFeedback:     congrats,
	}
}

// samplePairs shuffles and truncates a pair list.
func samplePairs(ps []vocab.Pair, n int) []vocab.Pair {
	out := append([]vocab.Pair(nil), ps...)
	mrand.Shuffle(len(out), func(a, b int) { out[a], out[b] = out[b], out[a] })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
