package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"recsys/config"
	"recsys/internal/domain"
)

const testCatalog = `product_id,name,category,tags
1,Trail Runner,Footwear,"red shoes running sports"
2,Court Classic,Footwear,"white shoes tennis sports"
3,Red Beanie,Accessories,"red hat winter"
4,Espresso Machine,Kitchen,"coffee espresso kitchen appliance"
5,Road Racer,Footwear,"red shoes running road"
`

// resetFlags restores defaults, since flag values outlive a single Execute.
func resetFlags(cmds ...*cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	for _, c := range cmds {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd, recommendCmd, batchCmd, catalogImportCmd, catalogListCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "products.csv"), []byte(testCatalog), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRecommend_FromCSV(t *testing.T) {
	dir := writeCatalog(t)

	out, err := run(t, "recommend", "--dir", dir, "-s", "1", "-k", "2", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var recs []domain.Recommendation
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(recs))
	}
	if recs[0].ItemID != "5" {
		t.Errorf("expected Road Racer first, got %+v", recs[0])
	}
	for _, r := range recs {
		if r.ItemID == "1" {
			t.Error("selected item must not be recommended")
		}
	}
}

func TestRecommend_EmptySelection(t *testing.T) {
	dir := writeCatalog(t)

	out, err := run(t, "recommend", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Please select at least one item") {
		t.Errorf("expected prompt, got %q", out)
	}
}

func TestRecommend_UnknownItem(t *testing.T) {
	dir := writeCatalog(t)

	_, err := run(t, "recommend", "--dir", dir, "-s", "does-not-exist")
	if err == nil || !strings.Contains(err.Error(), "does-not-exist") {
		t.Errorf("expected unknown item error, got %v", err)
	}
}

func TestRecommend_Where(t *testing.T) {
	dir := writeCatalog(t)

	out, err := run(t, "recommend", "--dir", dir, "-s", "Trail Runner", "--where", `item.category == "Accessories"`, "--yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Red Beanie") || strings.Contains(out, "Road Racer") {
		t.Errorf("expected only accessories, got %q", out)
	}
}

func TestCatalogImportAndList(t *testing.T) {
	dir := writeCatalog(t)

	out, err := run(t, "catalog", "import", "--dir", dir)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Items stored: 5") {
		t.Errorf("expected import summary, got %q", out)
	}
	if _, err := os.Stat(config.CatalogDBPath(dir)); err != nil {
		t.Errorf("expected snapshot file: %v", err)
	}

	// The snapshot is served even after the CSV is gone.
	if err := os.Remove(filepath.Join(dir, "products.csv")); err != nil {
		t.Fatal(err)
	}

	out, err = run(t, "catalog", "list", "--dir", dir, "--category", "Footwear", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var items []domain.Item
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 footwear items, got %d", len(items))
	}

	out, err = run(t, "recommend", "--dir", dir, "-s", "3")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Top ") {
		t.Errorf("expected text output, got %q", out)
	}
}

func TestCatalogImport_Empty(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, "catalog", "import", "--dir", dir); err == nil {
		t.Error("expected error when no catalog files exist")
	}
}

func TestBatch(t *testing.T) {
	dir := writeCatalog(t)
	requests := `
- name: runners
  selection: ["1"]
  top_k: 1
- name: broken
  selection: ["nope"]
- selection: ["Espresso Machine"]
`
	file := filepath.Join(dir, "requests.yaml")
	if err := os.WriteFile(file, []byte(requests), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "batch", "--dir", dir, "-f", file, "--json")
	if err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Errorf("expected one failed request, got %v", err)
	}

	var outputs []batchOutput
	if err := json.Unmarshal([]byte(out), &outputs); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(outputs))
	}
	if len(outputs[0].Results) != 1 || outputs[0].Results[0].ItemID != "5" {
		t.Errorf("expected Road Racer for runners, got %+v", outputs[0].Results)
	}
	if outputs[1].Error == "" {
		t.Error("expected error for unknown selection")
	}
	if outputs[2].Name != "request-3" {
		t.Errorf("expected default name, got %q", outputs[2].Name)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := writeCatalog(t)
	if err := os.WriteFile(filepath.Join(dir, "recsys.yaml"), []byte("vectorize:\n  weighting: bm25\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "recommend", "--dir", dir, "-s", "1"); err == nil {
		t.Error("expected validation error")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "<1s"},
		{42, "42s"},
		{125, "2m5s"},
		{3720, "1h2m"},
	}
	for _, tt := range tests {
		got := formatDuration(time.Duration(tt.secs) * time.Second)
		if got != tt.want {
			t.Errorf("formatDuration(%ds) = %s, want %s", tt.secs, got, tt.want)
		}
	}
}
