package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinTokenLen drops single-character tokens, matching the usual
// two-or-more word-character rule for tag vocabularies.
const DefaultMinTokenLen = 2

// Tokenizer splits tag text into lowercase terms with optional stopword removal.
type Tokenizer struct {
	stopwords map[string]struct{}
	minLen    int
}

// NewTokenizer creates a new Tokenizer. A minLen below 1 falls back to DefaultMinTokenLen.
func NewTokenizer(removeStopwords bool, minLen int) *Tokenizer {
	if minLen < 1 {
		minLen = DefaultMinTokenLen
	}
	t := &Tokenizer{minLen: minLen}
	if removeStopwords {
		t.stopwords = defaultStopwords()
	}
	return t
}

// Tokenize splits text into terms. Commas, hyphens and other punctuation separate terms.
func (t *Tokenizer) Tokenize(text string) []string {
	words := splitWords(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if utf8.RuneCountInString(word) < t.minLen {
			continue
		}
		word = strings.ToLower(word)
		if _, isStop := t.stopwords[word]; isStop {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// splitWords splits text on anything that is not a letter, digit or underscore.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

func defaultStopwords() map[string]struct{} {
	stops := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "were", "will", "with", "this",
		"or", "not", "no", "but", "so", "very", "too", "also",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
