package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"recsys/config"
	"recsys/internal/adapter/analyzer"
	"recsys/internal/adapter/catalog"
	"recsys/internal/adapter/fs"
	"recsys/internal/adapter/profile"
	"recsys/internal/adapter/ranker"
	"recsys/internal/adapter/store"
	"recsys/internal/adapter/vectorspace"
	"recsys/internal/domain"
	"recsys/internal/port"
	"recsys/internal/usecase"
)

func main() {
	dir := flag.String("dir", ".", "Directory with recsys.yaml and a catalog snapshot or CSV files")
	topK := flag.Int("k", 5, "Number of results per request")
	limit := flag.Int("n", 0, "Only benchmark the first n items (0 = all)")
	flag.Parse()

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cat, err := loadCatalog(ctx, cfg, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	uc := usecase.NewRecommendUseCase(
		analyzer.NewTokenizer(cfg.Vectorize.Stopwords, cfg.Vectorize.MinTokenLen),
		profile.NewAggregator(),
		ranker.NewSimilarityRanker(),
		vectorspace.Options{
			Weighting: vectorspace.Weighting(cfg.Vectorize.Weighting),
			Normalize: cfg.Vectorize.Normalize,
		},
	)

	n := cat.Len()
	if *limit > 0 && *limit < n {
		n = *limit
	}

	fmt.Println("SINGLE-ITEM RECOMMENDATION BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Catalog items: %d\n", cat.Len())
	fmt.Printf("Requests:      %d (top %d)\n", n, *topK)
	fmt.Printf("Weighting:     %s (normalize=%v)\n\n", cfg.Vectorize.Weighting, cfg.Vectorize.Normalize)

	latencies := make([]time.Duration, 0, n)
	var topScore, zeroHits float64
	for i := 0; i < n; i++ {
		item := cat.Item(i)
		start := time.Now()
		results, err := uc.Recommend(ctx, cat, domain.Selection{item.ID}, *topK)
		latencies = append(latencies, time.Since(start))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request for %s failed: %v\n", item.ID, err)
			os.Exit(1)
		}
		if len(results) == 0 || results[0].Score == 0 {
			zeroHits++
			continue
		}
		topScore += results[0].Score
	}

	if n == 0 {
		fmt.Println("Nothing to benchmark.")
		return
	}

	sort.Slice(latencies, func(a, b int) bool { return latencies[a] < latencies[b] })
	var total time.Duration
	for _, l := range latencies {
		total += l
	}

	fmt.Println("Latency:")
	fmt.Printf("  mean: %v\n", total/time.Duration(n))
	fmt.Printf("  p50:  %v\n", percentile(latencies, 0.50))
	fmt.Printf("  p95:  %v\n", percentile(latencies, 0.95))
	fmt.Printf("  max:  %v\n", latencies[n-1])
	fmt.Println()

	fmt.Println("Quality:")
	if matched := float64(n) - zeroHits; matched > 0 {
		fmt.Printf("  mean top-1 similarity: %.4f\n", topScore/matched)
	}
	fmt.Printf("  items with no similar item: %.0f (%.1f%%)\n", zeroHits, 100*zeroHits/float64(n))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func loadCatalog(ctx context.Context, cfg *config.Config, dir string) (*domain.Catalog, error) {
	var src port.CatalogSource
	dbPath := config.CatalogDBPath(dir)
	if _, err := os.Stat(dbPath); err == nil {
		st, err := store.NewBoltStore(dbPath)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		src = st
	} else {
		walker := fs.NewWalker(cfg.Catalog.Includes, cfg.Catalog.Excludes)
		src = catalog.NewFileSource(dir, walker, cfg.CommaRune())
	}
	return src.Load(ctx)
}
