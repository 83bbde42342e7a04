package stopwords

import (
	"sort"
	"strings"
)

// Set holds normalized stop words. A nil *Set means no list has been loaded
// yet, which callers must not confuse with an empty list.
type Set struct {
	words map[string]struct{}
}

// Load builds a fresh set from raw lines. Each line is trimmed and lowercased;
// blank lines are skipped.
func Load(lines []string) *Set {
	s := &Set{
		words: make(map[string]struct{}, len(lines)),
	}
	for _, line := range lines {
		word := strings.ToLower(strings.TrimSpace(line))
		if word == "" {
			continue
		}
		s.words[word] = struct{}{}
	}
	return s
}

func (s *Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, exists := s.words[word]
	return exists
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Words returns the members in ascending order.
func (s *Set) Words() []string {
	if s == nil {
		return nil
	}
	words := make([]string, 0, len(s.words))
	for w := range s.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
