package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"recsys/config"
	"recsys/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "recsys",
	Short: "Tag-based product recommender",
	Long: `recsys recommends catalog items similar to the ones you picked, by comparing
TF-IDF vectors of item tags with cosine similarity.

Example usage:
  recsys catalog import ./data          # Snapshot CSV catalogs into .recsys/catalog.db
  recsys recommend -s 12 -s "Red Shoes" # Recommend items similar to a selection
  recsys batch -f selections.yaml       # Run many selections at once`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := cfg.ApplyEnv(rootDir); err != nil {
			return fmt.Errorf("failed to apply environment: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logging.Init(logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cmd.ErrOrStderr(),
		})
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./recsys.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
