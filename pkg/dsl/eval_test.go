package dsl

import (
	"testing"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/utils"
)

func sampleItem() *core.Item {
	it := core.ProductItem(core.Product{ID: 3, Name: "Steak", Category: "Meat", Price: 120})
	it.Score = 0.8
	it.PutLabel("recall_source", utils.Label{Value: "recall.catalog_order", Source: "recall"})
	return it
}

func TestCompileAndEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{name: "id equality", expr: "item.id == 3", want: true},
		{name: "price greater", expr: "item.price > 100.0", want: true},
		{name: "price lesser", expr: "item.price < 100.0", want: false},
		{name: "score", expr: "item.score >= 0.5", want: true},
		{name: "meta string", expr: `item.category == "Meat"`, want: true},
		{name: "label value", expr: `label.recall_source == "recall.catalog_order"`, want: true},
		{name: "conjunction", expr: `item.price > 50.0 && item.category != "Fruits"`, want: true},
		{name: "disjunction", expr: `item.id == 99 || item.score > 0.5`, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.expr, err)
			}
			got, err := prog.EvalItem(sampleItem(), nil)
			if err != nil {
				t.Fatalf("EvalItem() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EvalItem(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile("item.price >"); err == nil {
		t.Error("Compile() with malformed expression returned nil error")
	}
}

func TestEvalMissingKey(t *testing.T) {
	prog, err := Compile(`label.nope == "x"`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if _, err := prog.EvalItem(sampleItem(), nil); err == nil {
		t.Error("EvalItem() with absent label key returned nil error")
	}
}

func TestEvalNonBoolean(t *testing.T) {
	prog, err := Compile("item.price")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if _, err := prog.EvalItem(sampleItem(), nil); err == nil {
		t.Error("EvalItem() with non-boolean expression returned nil error")
	}
}

func TestEvalContext(t *testing.T) {
	prog, err := Compile(`rctx.current_page == "checkout"`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	got, err := prog.EvalItem(sampleItem(), &core.RecommendContext{CurrentPage: "checkout"})
	if err != nil {
		t.Fatalf("EvalItem() error: %v", err)
	}
	if !got {
		t.Error("EvalItem() = false, want current page match")
	}
}
