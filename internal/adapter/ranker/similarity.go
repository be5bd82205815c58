// Package ranker scores catalog items against a query vector and returns the top K.
package ranker

import (
	"context"
	"fmt"
	"sort"

	"recsys/internal/adapter/vectorspace"
	"recsys/internal/domain"
	"recsys/internal/logging"
	"recsys/internal/port"
)

// SimilarityRanker ranks items by cosine similarity to a query vector.
type SimilarityRanker struct {
	filters []port.CandidateFilter
}

// NewSimilarityRanker creates a ranker. Filters run in order on every
// non-excluded candidate before truncation.
func NewSimilarityRanker(filters ...port.CandidateFilter) *SimilarityRanker {
	return &SimilarityRanker{filters: filters}
}

// Rank scores vectors 0..catalog.Len()-1 of space against query, drops excluded
// positions and filtered candidates, and returns the best k by descending score.
// Ties keep catalog order. Any document past the catalog (the query itself) is
// never a candidate.
func (r *SimilarityRanker) Rank(
	ctx context.Context,
	catalog *domain.Catalog,
	space *vectorspace.Space,
	query vectorspace.Vector,
	exclude []int,
	k int,
) ([]domain.Recommendation, error) {
	if k < 0 {
		return nil, domain.ErrInvalidTopK
	}
	if space.Len() < catalog.Len() {
		return nil, fmt.Errorf("vector space has %d documents, catalog has %d items", space.Len(), catalog.Len())
	}
	if k == 0 {
		return nil, nil
	}

	excluded := make(map[int]struct{}, len(exclude))
	for _, idx := range exclude {
		excluded[idx] = struct{}{}
	}

	results := make([]domain.Recommendation, 0, catalog.Len())
	candidates, filteredOut := 0, 0

	for i := 0; i < catalog.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, skip := excluded[i]; skip {
			continue
		}
		candidates++

		item := catalog.Item(i)
		rec := domain.Recommendation{
			ItemID:   item.ID,
			Name:     item.Name,
			Category: item.Category,
			Tags:     item.Tags,
			Score:    vectorspace.Cosine(query, space.Vector(i)),
		}

		allowed, err := r.allow(rec)
		if err != nil {
			return nil, err
		}
		if !allowed {
			filteredOut++
			continue
		}
		results = append(results, rec)
	}

	// results are in catalog order, so a stable sort keeps it as the tie-break
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}

	logging.Ctx(ctx).Debug().
		Int("candidates", candidates).
		Int("filtered", filteredOut).
		Int("returned", len(results)).
		Msg("candidates ranked")

	return results, nil
}

func (r *SimilarityRanker) allow(rec domain.Recommendation) (bool, error) {
	for _, f := range r.filters {
		ok, err := f.Allow(rec)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
