// Package builders 在 init 中注册内置 Node 的配置构建器。
// 使用配置驱动的 Pipeline 时需要匿名导入本包。
package builders

import (
	"fmt"
	"strconv"

	"github.com/rushteam/shopkit/config"
	"github.com/rushteam/shopkit/filter"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/conv"
	"github.com/rushteam/shopkit/recall"
	"github.com/rushteam/shopkit/rerank"
)

func init() {
	config.Register("recall.popular", BuildPopularNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// BuildPopularNode 构建热度召回 Node。
// 配置：key（Store 中的排行 key，运行时注入 Store 后生效）、ids（fallback 列表）、top_k。
func BuildPopularNode(cfg map[string]any) (pipeline.Node, error) {
	ids := make([]int64, 0)
	for _, s := range conv.SliceAnyToString(cfg["ids"]) {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", s)
		}
		ids = append(ids, id)
	}

	node := &recall.Popular{
		Key: conv.ConfigGet(cfg, "key", ""),
		IDs: ids,
	}
	if n := conv.ConfigGetInt64(cfg, "top_k", 0); n > 0 {
		node.TopK = int(n)
	}
	return node, nil
}

// BuildFilterNode 构建过滤 Node。
// 配置：filters 列表，目前支持 type=rule（expr 为 CEL 表达式）。
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter requires expr")
			}
			f, err := filter.NewRule(expr)
			if err != nil {
				return nil, fmt.Errorf("compile rule %q: %w", expr, err)
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

// BuildTopNNode 构建截断 Node。配置：n。
func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	return &rerank.TopNNode{N: int(n)}, nil
}

// BuildDiversityNode 构建多样性 Node。配置：label_key，默认 "category"。
func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	labelKey := conv.ConfigGet(cfg, "label_key", "category")
	if labelKey == "" {
		labelKey = "category"
	}
	return &rerank.Diversity{LabelKey: labelKey}, nil
}
