package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tok := NewTokenizer(false, 0)

	tokens := tok.Tokenize("Red Shoes, running")
	expected := []string{"red", "shoes", "running"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestTokenizer_KeepsStopwordsByDefault(t *testing.T) {
	tok := NewTokenizer(false, 0)

	tokens := tok.Tokenize("the quick fox")
	if len(tokens) != 3 || tokens[0] != "the" {
		t.Errorf("expected stopwords kept, got %v", tokens)
	}
}

func TestTokenizer_StopwordRemoval(t *testing.T) {
	tok := NewTokenizer(true, 0)

	tokens := tok.Tokenize("the quick brown fox")
	for _, token := range tokens {
		if token == "the" {
			t.Errorf("stopword 'the' should be removed, got %v", tokens)
		}
	}
}

func TestTokenizer_ShortWordRemoval(t *testing.T) {
	tok := NewTokenizer(false, 0)

	tokens := tok.Tokenize("a I go to x-ray")
	for _, token := range tokens {
		if len(token) < 2 {
			t.Errorf("short word should be removed: %s", token)
		}
	}

	tok = NewTokenizer(false, 1)
	if got := tok.Tokenize("a b"); len(got) != 2 {
		t.Errorf("expected minLen=1 to keep single letters, got %v", got)
	}
}

func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer(true, 0)

	tokens := tok.Tokenize("")
	if len(tokens) != 0 {
		t.Errorf("expected 0 tokens for empty input, got %d", len(tokens))
	}
}

func TestTokenizer_Unicode(t *testing.T) {
	tok := NewTokenizer(false, 0)

	tokens := tok.Tokenize("Café Über é")
	expected := []string{"café", "über"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"hello world", 2},
		{"hello_world", 1},
		{"hello-world", 2},
		{"red,blue;green", 3},
		{"  padded  ", 1},
		{"123numbers456", 1},
		{"", 0},
	}

	for _, tt := range tests {
		words := splitWords(tt.input)
		if len(words) != tt.expected {
			t.Errorf("splitWords(%q) = %d words, want %d: %v", tt.input, len(words), tt.expected, words)
		}
	}
}
