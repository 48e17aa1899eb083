package builders

import (
	"context"
	"testing"

	"github.com/rushteam/shopkit/config"
	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
)

func TestRegisteredTypes(t *testing.T) {
	types := config.SupportedTypes()
	want := map[string]bool{
		"recall.popular":   false,
		"filter":           false,
		"rerank.topn":      false,
		"rerank.diversity": false,
	}
	for _, typ := range types {
		if _, ok := want[typ]; ok {
			want[typ] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Errorf("type %q not registered", typ)
		}
	}
}

func TestBuildPipelineFromConfig(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "test"
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{Type: "recall.popular", Config: map[string]any{"ids": []any{"3", "1", "2"}}},
		{Type: "filter", Config: map[string]any{
			"filters": []any{
				map[string]any{"type": "rule", "expr": "item.id == 1"},
			},
		}},
		{Type: "rerank.topn", Config: map[string]any{"n": 1}},
	}

	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig() error: %v", err)
	}

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline() error: %v", err)
	}

	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 3 {
		t.Errorf("Run() = %v, want single item 3", items)
	}
}

func TestValidateRejectsUnknownType(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "recall.milvus"}}

	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Error("ValidatePipelineConfig() accepted unknown node type")
	}
}

func TestBuildPopularNodeInvalidID(t *testing.T) {
	_, err := BuildPopularNode(map[string]any{"ids": []any{"abc"}})
	if err == nil {
		t.Error("BuildPopularNode() accepted non-numeric id")
	}
}

func TestBuildFilterNodeRequiresExpr(t *testing.T) {
	_, err := BuildFilterNode(map[string]any{
		"filters": []any{map[string]any{"type": "rule"}},
	})
	if err == nil {
		t.Error("BuildFilterNode() accepted rule without expr")
	}
}
