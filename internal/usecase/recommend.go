package usecase

import (
	"context"
	"time"

	"recsys/internal/adapter/profile"
	"recsys/internal/adapter/ranker"
	"recsys/internal/adapter/vectorspace"
	"recsys/internal/domain"
	"recsys/internal/logging"
	"recsys/internal/port"
)

// DefaultTopK is the result limit used when the caller does not choose one.
const DefaultTopK = 5

// RecommendUseCase composes the profile aggregator, vector space builder and
// similarity ranker. It holds no per-call state and is safe for concurrent use.
type RecommendUseCase struct {
	tokenizer  port.Tokenizer
	aggregator *profile.Aggregator
	ranker     *ranker.SimilarityRanker
	options    vectorspace.Options
}

// NewRecommendUseCase creates a new recommend use case.
func NewRecommendUseCase(
	tokenizer port.Tokenizer,
	aggregator *profile.Aggregator,
	ranker *ranker.SimilarityRanker,
	options vectorspace.Options,
) *RecommendUseCase {
	return &RecommendUseCase{
		tokenizer:  tokenizer,
		aggregator: aggregator,
		ranker:     ranker,
		options:    options,
	}
}

// Recommend ranks catalog items by similarity to the items in selection.
//
// An empty selection yields an empty result. Selected items never appear in the
// result, which holds at most topK entries sorted by descending score, ties in
// catalog order.
func (u *RecommendUseCase) Recommend(
	ctx context.Context,
	catalog *domain.Catalog,
	selection domain.Selection,
	topK int,
) ([]domain.Recommendation, error) {
	if topK < 0 {
		return nil, domain.ErrInvalidTopK
	}
	if len(selection) == 0 {
		return nil, nil
	}
	if catalog.Len() == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	ctx = logging.ContextWithNewRequestID(ctx)
	start := time.Now()

	prof, err := u.aggregator.Aggregate(catalog, selection)
	if err != nil {
		return nil, err
	}

	// The query document is appended after the catalog so it shares the
	// vocabulary fit but can never be ranked as a candidate.
	docs := append(catalog.Documents(), prof.Query)
	space, err := vectorspace.Build(ctx, docs, u.tokenizer, u.options)
	if err != nil {
		return nil, err
	}

	results, err := u.ranker.Rank(ctx, catalog, space, space.Vector(catalog.Len()), prof.Indices, topK)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Int("selected", len(prof.Indices)).
		Int("catalog", catalog.Len()).
		Int("results", len(results)).
		Dur("took", time.Since(start)).
		Msg("recommendations computed")

	return results, nil
}
