package filter

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"recsys/internal/domain"
)

var (
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return celEnv, celEnvErr
}

// Expr is a compiled CEL predicate over a scored candidate.
//
// The candidate is exposed as `item` with fields id, name, category, tags and score:
//
//	item.category == "Shoes" && item.score > 0.2
//	item.tags.contains("winter")
//
// A compiled Expr is safe for concurrent use.
type Expr struct {
	source string
	prg    cel.Program
}

// NewExpr compiles source. The expression must evaluate to a bool.
func NewExpr(source string) (*Expr, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}

	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile filter %q: %w", source, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter %q must return bool, got %s", source, out)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program filter %q: %w", source, err)
	}

	return &Expr{source: source, prg: prg}, nil
}

// String returns the expression source.
func (e *Expr) String() string {
	return e.source
}

func (e *Expr) Allow(rec domain.Recommendation) (bool, error) {
	out, _, err := e.prg.Eval(map[string]any{
		"item": map[string]any{
			"id":       rec.ItemID,
			"name":     rec.Name,
			"category": rec.Category,
			"tags":     rec.Tags,
			"score":    rec.Score,
		},
	})
	if err != nil {
		return false, fmt.Errorf("eval filter %q: %w", e.source, err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, want bool", e.source, out.Value())
	}
	return allowed, nil
}
