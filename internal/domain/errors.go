package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus is returned when a vector space would be built from zero documents.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrInvalidTopK is returned for a negative result limit.
	ErrInvalidTopK = errors.New("top_k must not be negative")

	// ErrUnknownItem matches every *UnknownItemError.
	ErrUnknownItem = errors.New("unknown item")

	// ErrDuplicateItem is returned when a catalog repeats an id or name.
	ErrDuplicateItem = errors.New("duplicate item")
)

// UnknownItemError names the selection key that did not resolve.
type UnknownItemError struct {
	Key string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item: %q", e.Key)
}

func (e *UnknownItemError) Is(target error) bool {
	return target == ErrUnknownItem
}
