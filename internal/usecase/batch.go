package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"recsys/internal/domain"
	"recsys/internal/logging"
)

// BatchRequest is one independent recommendation request.
type BatchRequest struct {
	Name      string           `yaml:"name" json:"name"`
	Selection domain.Selection `yaml:"selection" json:"selection"`
	TopK      *int             `yaml:"top_k,omitempty" json:"top_k,omitempty"`
}

// BatchResult pairs a request with its outcome. Err is per request.
type BatchResult struct {
	Request BatchRequest
	Results []domain.Recommendation
	Err     error
}

// RecommendBatch runs every request against the same read-only catalog, at most
// concurrency at a time (0 means unbounded). Results keep request order. The
// returned error is non-nil only when ctx is done before all requests ran.
func (u *RecommendUseCase) RecommendBatch(
	ctx context.Context,
	catalog *domain.Catalog,
	requests []BatchRequest,
	defaultTopK int,
	concurrency int,
) ([]BatchResult, error) {
	out := make([]BatchResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			topK := defaultTopK
			if req.TopK != nil {
				topK = *req.TopK
			}

			rctx := logging.ContextWithNewRequestID(gctx)
			results, err := u.Recommend(rctx, catalog, req.Selection, topK)
			if err != nil {
				logging.Ctx(rctx).Warn().Err(err).Str("request", req.Name).Msg("batch request failed")
			}
			out[i] = BatchResult{Request: req, Results: results, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
