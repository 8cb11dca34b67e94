// internal/vocab/vocab.go
//
// Vocabulary store for the game engines.
//
// Responsibilities:
//   - Load every embedded dataset once (word pairs, colors, animals, action
//     verbs, reading categories, sentence categories, stories).
//   - Enforce term uniqueness within the word-pair working set (first
//     occurrence wins) so matching is never ambiguous.
//   - Chunk the word pairs into fixed-size practice lists of 8.
//   - Expose ordered day/month name sets for the calendar games.
//
// Initialization behavior (Init):
//   1. If VOCAB_WORDS_FILE is set, load [term <TAB> translation] rows from
//      that file instead of the embedded words dataset.
//   2. Every other dataset always comes from the embedded files.
//   3. Initialization runs once (sync.Once) and fails if the word-pair
//      working set ends up empty.
//
// Environment variables:
//   VOCAB_WORDS_FILE=/path/to/words.tsv

package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/talbenari/wordgarden/assets"
)

// Pair is one vocabulary entry: an English term and its Hebrew translation.
type Pair struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
}

// List is a fixed-size chunk of the word pairs, used as one game round's worth.
type List struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Pairs []Pair `json:"pairs"`
}

// Color is a named color with its display hex value.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Animal is a named animal with its display emoji.
type Animal struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// Category is an ordered group of pairs sharing a reading rule or theme.
type Category struct {
	Name  string `json:"name"`
	Pairs []Pair `json:"pairs"`
}

// Story is a short ordered text for story-mode reading practice.
type Story struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Sentences [][]string `json:"sentences"`
}

// ListSize is the number of word pairs per practice list.
const ListSize = 8

// Days and Months are ordered domain sets for the calendar games.
var Days = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	initOnce   sync.Once
	initialErr error

	pairs      []Pair
	lists      []List
	colors     []Color
	animals    []Animal
	actions    []Pair
	categories []Category
	sentences  []Category
	stories    []Story
)

// Init loads all datasets exactly once.
// Returns an error if the word-pair working set is empty or a dataset is malformed.
func Init() error {
	initOnce.Do(func() {
		var rows [][]string
		var err error

		if path := os.Getenv("VOCAB_WORDS_FILE"); path != "" {
			rows, err = readPairFile(path)
		} else {
			rows, err = assets.WordPairs()
		}
		if err != nil {
			initialErr = err
			return
		}
		pairs = dedupePairs(rows)
		if len(pairs) == 0 {
			initialErr = errors.New("vocab: word pair list is empty")
			return
		}
		lists = chunkPairs(pairs, ListSize)

		if colors, err = loadColors(); err != nil {
			initialErr = err
			return
		}
		if animals, err = loadAnimals(); err != nil {
			initialErr = err
			return
		}
		if actions, err = loadActions(); err != nil {
			initialErr = err
			return
		}
		if categories, err = loadGrouped(assets.Categories); err != nil {
			initialErr = err
			return
		}
		if sentences, err = loadGrouped(assets.Sentences); err != nil {
			initialErr = err
			return
		}
		if stories, err = loadStories(); err != nil {
			initialErr = err
			return
		}
	})
	return initialErr
}

// readPairFile loads [term <TAB> translation] rows from a file on disk.
func readPairFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out [][]string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.Split(s, "\t"))
	}
	return out, sc.Err()
}

// dedupePairs converts raw rows into pairs, keeping the first occurrence of
// each term (case-insensitive) and dropping malformed rows.
func dedupePairs(rows [][]string) []Pair {
	seen := make(map[string]struct{}, len(rows))
	out := make([]Pair, 0, len(rows))
	for _, r := range rows {
		if len(r) < 2 {
			continue
		}
		term := strings.TrimSpace(r[0])
		key := strings.ToLower(term)
		if term == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Pair{Term: term, Translation: strings.TrimSpace(r[1])})
	}
	return out
}

// chunkPairs splits pairs into lists of at most size entries, 1-based IDs.
func chunkPairs(ps []Pair, size int) []List {
	var out []List
	for i := 0; i < len(ps); i += size {
		end := i + size
		if end > len(ps) {
			end = len(ps)
		}
		chunk := ps[i:end]
		out = append(out, List{
			ID:    len(out) + 1,
			Name:  fmt.Sprintf("Vocabulary List %d (%d words)", len(out)+1, len(chunk)),
			Pairs: chunk,
		})
	}
	return out
}

func loadColors() ([]Color, error) {
	rows, err := assets.Colors()
	if err != nil {
		return nil, err
	}
	out := make([]Color, 0, len(rows))
	for _, r := range rows {
		if len(r) < 2 {
			continue
		}
		out = append(out, Color{Name: r[0], Hex: r[1]})
	}
	return out, nil
}

func loadAnimals() ([]Animal, error) {
	rows, err := assets.Animals()
	if err != nil {
		return nil, err
	}
	out := make([]Animal, 0, len(rows))
	for _, r := range rows {
		if len(r) < 2 {
			continue
		}
		out = append(out, Animal{Name: r[0], Emoji: r[1]})
	}
	return out, nil
}

func loadActions() ([]Pair, error) {
	rows, err := assets.Actions()
	if err != nil {
		return nil, err
	}
	return dedupePairs(rows), nil
}

// loadGrouped turns [group, term, translation] rows into ordered categories.
func loadGrouped(src func() ([][]string, error)) ([]Category, error) {
	rows, err := src()
	if err != nil {
		return nil, err
	}
	var out []Category
	index := make(map[string]int)
	for _, r := range rows {
		if len(r) < 3 {
			continue
		}
		name := r[0]
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, Category{Name: name})
		}
		out[i].Pairs = append(out[i].Pairs, Pair{Term: r[1], Translation: r[2]})
	}
	return out, nil
}

// loadStories groups [id, title, sentence] rows into ordered stories,
// splitting each sentence row into words.
func loadStories() ([]Story, error) {
	rows, err := assets.Stories()
	if err != nil {
		return nil, err
	}
	var out []Story
	index := make(map[string]int)
	for _, r := range rows {
		if len(r) < 3 {
			continue
		}
		id := r[0]
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, Story{ID: id, Title: r[1]})
		}
		out[i].Sentences = append(out[i].Sentences, strings.Fields(r[2]))
	}
	return out, nil
}

// Pairs returns the full deduplicated word-pair working set.
func Pairs() []Pair { return pairs }

// Lists returns the chunked practice lists.
func Lists() []List { return lists }

// ListByID returns the practice list with the given 1-based ID.
func ListByID(id int) (List, bool) {
	if id < 1 || id > len(lists) {
		return List{}, false
	}
	return lists[id-1], true
}

// Colors returns the color name set.
func Colors() []Color { return colors }

// Animals returns the animal name set.
func Animals() []Animal { return animals }

// Actions returns the action verb pairs.
func Actions() []Pair { return actions }

// Categories returns the reading word categories in file order.
func Categories() []Category { return categories }

// CategoryByName returns the reading category with the given name.
func CategoryByName(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// SentenceCategories returns the sentence categories in file order.
func SentenceCategories() []Category { return sentences }

// SentenceCategoryByName returns the sentence category with the given name.
func SentenceCategoryByName(name string) (Category, bool) {
	for _, c := range sentences {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Stories returns the reading stories in file order.
func Stories() []Story { return stories }

// StoryByID returns the story with the given ID.
func StoryByID(id string) (Story, bool) {
	for _, s := range stories {
		if s.ID == id {
			return s, true
		}
	}
	return Story{}, false
}

// StoryTranslation returns the translation for a story word, or the word
// wrapped in brackets when it is not in the working set.
func StoryTranslation(word string) string {
	for _, p := range pairs {
		if strings.EqualFold(p.Term, word) {
			return p.Translation
		}
	}
	return "[" + word + "]"
}

// Stats returns dataset sizes: (pairs, lists, colors, animals).
func Stats() (pairCount, listCount, colorCount, animalCount int) {
	return len(pairs), len(lists), len(colors), len(animals)
}
