// Package filter holds candidate filters applied by the ranker before truncation.
package filter

import "recsys/internal/domain"

// MinScore drops candidates scoring below Threshold. A zero threshold keeps everything.
type MinScore struct {
	Threshold float64
}

func (f MinScore) Allow(rec domain.Recommendation) (bool, error) {
	return rec.Score >= f.Threshold, nil
}

// Category keeps only candidates in one of the listed categories.
type Category struct {
	allowed map[string]struct{}
}

// NewCategory builds a category filter. Matching is exact.
func NewCategory(categories ...string) *Category {
	f := &Category{allowed: make(map[string]struct{}, len(categories))}
	for _, c := range categories {
		f.allowed[c] = struct{}{}
	}
	return f
}

func (f *Category) Allow(rec domain.Recommendation) (bool, error) {
	_, ok := f.allowed[rec.Category]
	return ok, nil
}
