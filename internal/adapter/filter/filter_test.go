package filter

import (
	"testing"

	"recsys/internal/domain"
)

var shoe = domain.Recommendation{
	ItemID:   "2",
	Name:     "Loafer",
	Category: "Shoes",
	Tags:     "red shoes casual",
	Score:    0.42,
}

func TestMinScore(t *testing.T) {
	tests := []struct {
		threshold float64
		want      bool
	}{
		{0, true},
		{0.42, true},
		{0.5, false},
	}
	for _, tt := range tests {
		got, err := MinScore{Threshold: tt.threshold}.Allow(shoe)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("MinScore(%v).Allow = %v, want %v", tt.threshold, got, tt.want)
		}
	}
}

func TestCategory(t *testing.T) {
	f := NewCategory("Shoes", "Hats")
	if ok, _ := f.Allow(shoe); !ok {
		t.Error("expected Shoes to be allowed")
	}
	other := shoe
	other.Category = "Outerwear"
	if ok, _ := f.Allow(other); ok {
		t.Error("expected Outerwear to be rejected")
	}
}

func TestExpr(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{`item.category == "Shoes"`, true},
		{`item.category == "Outerwear"`, false},
		{`item.score > 0.4 && item.name.startsWith("Loa")`, true},
		{`item.tags.contains("winter")`, false},
		{`item.id in ["1", "2"]`, true},
	}

	for _, tt := range tests {
		f, err := NewExpr(tt.expr)
		if err != nil {
			t.Fatalf("NewExpr(%q): %v", tt.expr, err)
		}
		got, err := f.Allow(shoe)
		if err != nil {
			t.Fatalf("Allow(%q): %v", tt.expr, err)
		}
		if got != tt.want {
			t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestExpr_CompileErrors(t *testing.T) {
	bad := []string{
		`item.category ==`,
		`1 + 2`,
		`unknown_var == 1`,
	}
	for _, expr := range bad {
		if _, err := NewExpr(expr); err == nil {
			t.Errorf("expected compile error for %q", expr)
		}
	}
}

func TestExpr_MissingField(t *testing.T) {
	f, err := NewExpr(`item.price > 10`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if _, err := f.Allow(shoe); err == nil {
		t.Error("expected eval error for missing field")
	}
}
