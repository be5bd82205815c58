package port

// Tokenizer turns tag text into vocabulary terms.
type Tokenizer interface {
	Tokenize(text string) []string
}
