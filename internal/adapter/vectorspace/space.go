// Package vectorspace builds a shared TF-IDF vector space over a document set.
//
// A Space is built once per recommendation call from the catalog's tag texts with
// the query document appended, read, and discarded. Nothing is cached.
package vectorspace

import (
	"context"
	"fmt"
	"math"
	"sort"

	"recsys/internal/domain"
	"recsys/internal/logging"
	"recsys/internal/port"
)

// Weighting selects the inverse document frequency formula.
type Weighting string

const (
	// WeightingSmooth uses ln((1+N)/(1+df)) + 1. Always positive.
	WeightingSmooth Weighting = "smooth"

	// WeightingRaw uses ln(N/(1+df)), floored at zero so weights stay non-negative.
	WeightingRaw Weighting = "raw"
)

// Options configures Build.
type Options struct {
	Weighting Weighting
	Normalize bool
}

// DefaultOptions returns smooth weighting with L2 normalisation.
func DefaultOptions() Options {
	return Options{Weighting: WeightingSmooth, Normalize: true}
}

// Space is an immutable vocabulary plus one vector per input document.
type Space struct {
	vocab   map[string]int
	terms   []string
	idf     []float64
	vectors []Vector
}

// Build tokenizes docs, fits a single shared vocabulary and returns the weighted vectors.
func Build(ctx context.Context, docs []string, tok port.Tokenizer, opts Options) (*Space, error) {
	if len(docs) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if opts.Weighting == "" {
		opts.Weighting = WeightingSmooth
	}
	if opts.Weighting != WeightingSmooth && opts.Weighting != WeightingRaw {
		return nil, fmt.Errorf("unsupported weighting: %s", opts.Weighting)
	}

	s := &Space{vocab: make(map[string]int)}
	counts := make([]map[int]int, len(docs))
	var df []int

	for d, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tf := make(map[int]int)
		for _, term := range tok.Tokenize(doc) {
			idx, ok := s.vocab[term]
			if !ok {
				idx = len(s.terms)
				s.vocab[term] = idx
				s.terms = append(s.terms, term)
				df = append(df, 0)
			}
			if tf[idx] == 0 {
				df[idx]++
			}
			tf[idx]++
		}
		counts[d] = tf
	}

	n := float64(len(docs))
	s.idf = make([]float64, len(s.terms))
	for i, f := range df {
		s.idf[i] = idf(opts.Weighting, n, float64(f))
	}

	s.vectors = make([]Vector, len(docs))
	for d, tf := range counts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.vectors[d] = s.weigh(tf, opts.Normalize)
	}

	logging.Ctx(ctx).Debug().
		Int("documents", len(docs)).
		Int("vocabulary", len(s.terms)).
		Str("weighting", string(opts.Weighting)).
		Msg("vector space built")

	return s, nil
}

func idf(w Weighting, n, df float64) float64 {
	if w == WeightingRaw {
		return math.Max(0, math.Log(n/(1+df)))
	}
	return math.Log((1+n)/(1+df)) + 1
}

func (s *Space) weigh(tf map[int]int, normalize bool) Vector {
	v := Vector{
		Indices: make([]int, 0, len(tf)),
		Values:  make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		v.Indices = append(v.Indices, idx)
	}
	sort.Ints(v.Indices)

	kept := v.Indices[:0]
	for _, idx := range v.Indices {
		w := float64(tf[idx]) * s.idf[idx]
		if w == 0 {
			continue
		}
		kept = append(kept, idx)
		v.Values = append(v.Values, w)
	}
	v.Indices = kept

	if normalize {
		if norm := v.Norm(); norm > 0 {
			v.scale(1 / norm)
		}
	}
	return v
}

// Len returns the number of document vectors.
func (s *Space) Len() int {
	return len(s.vectors)
}

// Vector returns the vector of document i.
func (s *Space) Vector(i int) Vector {
	return s.vectors[i]
}

// Vocabulary returns the terms in index order.
func (s *Space) Vocabulary() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// IDF returns the inverse document frequency of term.
func (s *Space) IDF(term string) (float64, bool) {
	idx, ok := s.vocab[term]
	if !ok {
		return 0, false
	}
	return s.idf[idx], true
}

// Weight returns the weight of term in document i, 0 if absent.
func (s *Space) Weight(i int, term string) float64 {
	idx, ok := s.vocab[term]
	if !ok {
		return 0
	}
	v := s.vectors[i]
	j := sort.SearchInts(v.Indices, idx)
	if j < len(v.Indices) && v.Indices[j] == idx {
		return v.Values[j]
	}
	return 0
}
