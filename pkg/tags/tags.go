// pkg/tags/tags.go
package tags

import (
	"errors"
	"sort"
	"strings"

	"github.com/NivBraz/tagextractor/internal/models"
	"github.com/NivBraz/tagextractor/pkg/stopwords"
)

// ErrStopWordsNotLoaded is returned by Extract when no stop word list was
// loaded. Pass an empty set to extract without filtering.
var ErrStopWordsNotLoaded = errors.New("stop words not loaded")

// Table maps a tag to the number of times it occurs.
type Table map[string]int

// Merge adds the counts of other into t.
func (t Table) Merge(other Table) {
	for word, count := range other {
		t[word] += count
	}
}

// Tokenize splits a line into lowercase, letters-only words. Every character
// outside A-Z and a-z acts as a separator, so "end.Start" yields two words.
func Tokenize(line string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if isASCIILetter(r) {
			return r
		}
		return ' '
	}, line)
	return strings.Fields(strings.ToLower(cleaned))
}

// Extract counts every non stop word token in lines.
func Extract(lines []string, stop *stopwords.Set) (Table, error) {
	if stop == nil {
		return nil, ErrStopWordsNotLoaded
	}

	table := make(Table)
	for _, line := range lines {
		for _, word := range Tokenize(line) {
			if stop.Contains(word) {
				continue
			}
			table[word]++
		}
	}
	return table, nil
}

// Compare orders entries by count descending, then word ascending. It
// returns a negative number when a sorts before b.
func Compare(a, b models.WordCount) int {
	if a.Count != b.Count {
		if a.Count > b.Count {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Word, b.Word)
}

// Rank returns every entry of t sorted with Compare.
func Rank(t Table) []models.WordCount {
	entries := make([]models.WordCount, 0, len(t))
	for word, count := range t {
		entries = append(entries, models.WordCount{
			Word:  word,
			Count: count,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return Compare(entries[i], entries[j]) < 0
	})
	return entries
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
