package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"recsys/config"
	"recsys/internal/adapter/store"
	"recsys/internal/domain"
)

var (
	listCategory string
	listJSON     bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the item catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import CSV catalogs into a local snapshot",
	Long: `Scan a directory for catalog CSV files and store their items in
.recsys/catalog.db under the root directory. Files are read in path order.

CSV files need a header with an id column (product_id or id) and a tags
column; name and category are optional.

Examples:
  recsys catalog import            # Import CSV files under the current directory
  recsys catalog import ./data     # Import CSV files under ./data`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogImport,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	RunE:  runCatalogList,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd, catalogListCmd)
	catalogListCmd.Flags().StringVar(&listCategory, "category", "", "only list items in this category")
	catalogListCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := GetConfig()
	dir := GetRootDir()

	path := dir
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	if err := config.EnsureDataDir(dir); err != nil {
		return fmt.Errorf("failed to create .recsys directory: %w", err)
	}

	dbPath := config.CatalogDBPath(dir)
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open catalog store: %w", err)
	}
	defer st.Close()

	migration, err := st.CheckMigration(cfg)
	if err != nil {
		return fmt.Errorf("failed to check migration: %w", err)
	}
	if migration.NeedsRebuild {
		fmt.Fprintf(out, "Catalog rebuild required: %s\n", migration.Reason)
		if err := st.Clear(); err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
	} else if migration.NeedsMigration {
		fmt.Fprintf(out, "Running schema migration: %s\n", migration.Reason)
		if err := st.Migrate(cfg); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	fmt.Fprintf(out, "Scanning %s...\n", path)

	var (
		bar       *progressbar.ProgressBar
		startTime time.Time
	)
	progress := func(done, total int, file string) {
		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Importing[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}
		bar.Set(done)

		elapsed := time.Since(startTime)
		if rate := float64(done) / elapsed.Seconds(); rate > 0 {
			eta := time.Duration(float64(total-done)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Importing[reset] ETA: %s", formatDuration(eta)))
		}
	}

	items, err := newFileSource(cfg, path).LoadItems(cmd.Context(), progress)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("no catalog items found under %s: %w", path, domain.ErrEmptyCorpus)
	}

	if err := st.ReplaceItems(cmd.Context(), items); err != nil {
		return fmt.Errorf("failed to store catalog: %w", err)
	}
	if err := st.Migrate(cfg); err != nil {
		return fmt.Errorf("failed to update schema info: %w", err)
	}

	fmt.Fprintf(out, "\nImport complete:\n")
	fmt.Fprintf(out, "  Items stored: %d\n", len(items))
	fmt.Fprintf(out, "\nCatalog stored at: %s\n", dbPath)
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	catalog, err := loadCatalog(cmd.Context(), GetConfig(), GetRootDir())
	if err != nil {
		return err
	}

	items := catalog.Items()
	if listCategory != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.Category == listCategory {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	if listJSON {
		return writeJSON(out, items)
	}

	if len(items) == 0 {
		fmt.Fprintln(out, "No items found.")
		return nil
	}
	for _, it := range items {
		fmt.Fprintf(out, "%-8s %-32s %-16s %s\n", it.ID, it.Name, it.Category, it.Tags)
	}
	fmt.Fprintf(out, "\n%d items\n", len(items))
	return nil
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
