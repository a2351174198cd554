package evidence

import (
	"strings"
	"unicode/utf8"
)

const keywordCutset = ".,:;!?()[]{}\"'"

// KeywordSet is a set of normalized significant words.
type KeywordSet map[string]struct{}

// Keywords splits text on whitespace, trims surrounding punctuation,
// lowercases and keeps tokens longer than three characters.
func Keywords(text string) KeywordSet {
	set := make(KeywordSet)
	for _, field := range strings.Fields(text) {
		w := strings.ToLower(strings.Trim(field, keywordCutset))
		if utf8.RuneCountInString(w) > 3 {
			set[w] = struct{}{}
		}
	}
	return set
}

// Len returns the number of distinct words.
func (s KeywordSet) Len() int {
	return len(s)
}

// Has reports whether word is in the set.
func (s KeywordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Intersect counts the words present in both sets.
func (s KeywordSet) Intersect(other KeywordSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for w := range small {
		if large.Has(w) {
			n++
		}
	}
	return n
}

// Minus returns a new set holding the words of s not in other.
func (s KeywordSet) Minus(other KeywordSet) KeywordSet {
	out := make(KeywordSet, len(s))
	for w := range s {
		if !other.Has(w) {
			out[w] = struct{}{}
		}
	}
	return out
}

func newKeywordSet(words []string) KeywordSet {
	set := make(KeywordSet, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
