package cli

import (
	"context"
	"fmt"
	"os"

	"recsys/config"
	"recsys/internal/adapter/analyzer"
	"recsys/internal/adapter/catalog"
	"recsys/internal/adapter/filter"
	"recsys/internal/adapter/fs"
	"recsys/internal/adapter/memstore"
	"recsys/internal/adapter/profile"
	"recsys/internal/adapter/ranker"
	"recsys/internal/adapter/store"
	"recsys/internal/adapter/vectorspace"
	"recsys/internal/domain"
	"recsys/internal/logging"
	"recsys/internal/port"
	"recsys/internal/usecase"
)

// newRecommender builds the recommend use case from config. where and
// minScore override the configured filter and threshold when set.
func newRecommender(cfg *config.Config, where string, minScore float64, extra ...port.CandidateFilter) (*usecase.RecommendUseCase, error) {
	tokenizer := analyzer.NewTokenizer(cfg.Vectorize.Stopwords, cfg.Vectorize.MinTokenLen)

	var filters []port.CandidateFilter
	if minScore <= 0 {
		minScore = cfg.Recommend.MinScore
	}
	if minScore > 0 {
		filters = append(filters, filter.MinScore{Threshold: minScore})
	}
	if where == "" {
		where = cfg.Recommend.Filter
	}
	if where != "" {
		expr, err := filter.NewExpr(where)
		if err != nil {
			return nil, fmt.Errorf("invalid filter: %w", err)
		}
		filters = append(filters, expr)
	}
	filters = append(filters, extra...)

	opts := vectorspace.Options{
		Weighting: vectorspace.Weighting(cfg.Vectorize.Weighting),
		Normalize: cfg.Vectorize.Normalize,
	}

	return usecase.NewRecommendUseCase(
		tokenizer,
		profile.NewAggregator(),
		ranker.NewSimilarityRanker(filters...),
		opts,
	), nil
}

func newFileSource(cfg *config.Config, root string) *catalog.FileSource {
	walker := fs.NewWalker(cfg.Catalog.Includes, cfg.Catalog.Excludes)
	return catalog.NewFileSource(root, walker, cfg.CommaRune())
}

// catalogSource prefers the imported snapshot and falls back to scanning CSV
// files under dir.
func catalogSource(cfg *config.Config, dir string) (port.CatalogSource, func() error, error) {
	dbPath := config.CatalogDBPath(dir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		logging.Debug().Str("dir", dir).Msg("no catalog snapshot, scanning csv files")
		return newFileSource(cfg, dir), func() error { return nil }, nil
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog snapshot: %w", err)
	}

	stale, reason, err := st.NeedsRebuild(cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	if stale {
		logging.Warn().Str("reason", reason).Msg("catalog snapshot is stale, run 'recsys catalog import'")
	}

	return st, st.Close, nil
}

// loadCatalog resolves the catalog source for dir and loads it once.
func loadCatalog(ctx context.Context, cfg *config.Config, dir string) (*domain.Catalog, error) {
	src, closeFn, err := catalogSource(cfg, dir)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	c, err := memstore.NewSnapshot(src).Get(ctx)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Debug().Int("items", c.Len()).Msg("catalog loaded")
	return c, nil
}
