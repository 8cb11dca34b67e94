package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed words.tsv colors.tsv animals.tsv actions.tsv categories.tsv sentences.tsv stories.tsv
var FS embed.FS

// readRows loads a tab-separated file, skipping blanks and # comments.
func readRows(name string) ([][]string, error) {
	f, err := FS.Open(name)
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

// WordPairs returns [term, translation] rows for the core vocabulary.
func WordPairs() ([][]string, error) { return readRows("words.tsv") }

// Colors returns [name, hex] rows.
func Colors() ([][]string, error) { return readRows("colors.tsv") }

// Animals returns [name, emoji] rows.
func Animals() ([][]string, error) { return readRows("animals.tsv") }

// Actions returns [verb, translation] rows.
func Actions() ([][]string, error) { return readRows("actions.tsv") }

// Categories returns [category, word, translation] rows for reading practice.
func Categories() ([][]string, error) { return readRows("categories.tsv") }

// Sentences returns [category, english, translation] rows.
func Sentences() ([][]string, error) { return readRows("sentences.tsv") }

// Stories returns [id, title, sentence] rows, one sentence per row in order.
func Stories() ([][]string, error) { return readRows("stories.tsv") }
