package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"recsys/internal/domain"
	"recsys/internal/usecase"
)

var (
	batchFile string
	batchJSON bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many recommendation requests against one catalog",
	Long: `Run a list of independent selections read from a YAML file. Requests run in
parallel (recommend.concurrency) and a failing request does not stop the others.

File format:
  - name: runners
    selection: ["12", "Trail Runner"]
    top_k: 3
  - name: kitchen
    selection: ["Coffee Maker"]

Example:
  recsys batch -f selections.yaml --json`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "YAML file with requests (required)")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "output as JSON")
	batchCmd.MarkFlagRequired("file")
}

type batchOutput struct {
	Name      string                  `json:"name"`
	Selection domain.Selection        `json:"selection"`
	Results   []domain.Recommendation `json:"results"`
	Error     string                  `json:"error,omitempty"`
}

func readBatchFile(path string) ([]usecase.BatchRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var requests []usecase.BatchRequest
	if err := yaml.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range requests {
		if requests[i].Name == "" {
			requests[i].Name = fmt.Sprintf("request-%d", i+1)
		}
	}
	return requests, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	requests, err := readBatchFile(batchFile)
	if err != nil {
		return fmt.Errorf("failed to read requests: %w", err)
	}

	uc, err := newRecommender(cfg, "", 0)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	catalog, err := loadCatalog(ctx, cfg, GetRootDir())
	if err != nil {
		return err
	}

	results, err := uc.RecommendBatch(ctx, catalog, requests, cfg.Recommend.TopK, cfg.Recommend.Concurrency)
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	outputs := make([]batchOutput, len(results))
	failed := 0
	for i, r := range results {
		outputs[i] = batchOutput{
			Name:      r.Request.Name,
			Selection: r.Request.Selection,
			Results:   r.Results,
		}
		if r.Err != nil {
			outputs[i].Error = r.Err.Error()
			failed++
		}
	}

	if batchJSON {
		if err := writeJSON(out, outputs); err != nil {
			return err
		}
	} else {
		for _, o := range outputs {
			fmt.Fprintf(out, "=== %s ===\n", o.Name)
			switch {
			case o.Error != "":
				fmt.Fprintf(out, "error: %s\n", o.Error)
			case len(o.Selection) == 0:
				fmt.Fprintln(out, "Please select at least one item")
			default:
				printRecommendations(out, o.Selection, o.Results)
			}
			fmt.Fprintln(out)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(results))
	}
	return nil
}
