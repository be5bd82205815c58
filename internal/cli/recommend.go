package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"recsys/internal/domain"
)

var (
	recSelection []string
	recTopK      int
	recWhere     string
	recMinScore  float64
	recJSON      bool
	recYAML      bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend items similar to a selection",
	Long: `Recommend catalog items whose tags are most similar to the items you selected.
Items are selected by id or by name; selected items are never recommended back.

Examples:
  recsys recommend -s 12 -s 47
  recsys recommend -s "Running Shoes" -k 10 --json
  recsys recommend -s 12 --where 'item.category == "Footwear"' --min-score 0.1`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringArrayVarP(&recSelection, "select", "s", nil, "selected item id or name (repeatable)")
	recommendCmd.Flags().IntVarP(&recTopK, "top-k", "k", -1, "number of results (default from config)")
	recommendCmd.Flags().StringVar(&recWhere, "where", "", "CEL filter over item.{id,name,category,tags,score}")
	recommendCmd.Flags().Float64Var(&recMinScore, "min-score", 0, "drop results below this similarity")
	recommendCmd.Flags().BoolVar(&recJSON, "json", false, "output as JSON")
	recommendCmd.Flags().BoolVar(&recYAML, "yaml", false, "output as YAML")
	recommendCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	if len(recSelection) == 0 {
		fmt.Fprintln(out, "Please select at least one item")
		return nil
	}

	topK := cfg.Recommend.TopK
	if cmd.Flags().Changed("top-k") {
		topK = recTopK
	}

	uc, err := newRecommender(cfg, recWhere, recMinScore)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	catalog, err := loadCatalog(ctx, cfg, GetRootDir())
	if err != nil {
		return err
	}

	results, err := uc.Recommend(ctx, catalog, recSelection, topK)
	if err != nil {
		return fmt.Errorf("recommend failed: %w", err)
	}

	switch {
	case recJSON:
		return writeJSON(out, results)
	case recYAML:
		return writeYAML(out, results)
	default:
		printRecommendations(out, recSelection, results)
		return nil
	}
}

func printRecommendations(w io.Writer, selection []string, results []domain.Recommendation) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No recommendations found.")
		return
	}

	fmt.Fprintf(w, "Top %d recommendations for: %s\n\n", len(results), strings.Join(selection, ", "))
	for i, r := range results {
		fmt.Fprintf(w, "%2d. %-32s %-16s id=%-8s similarity=%.4f\n", i+1, r.Name, r.Category, r.ItemID, r.Score)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
