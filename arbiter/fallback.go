package arbiter

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/filter"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/recall"
	"github.com/rushteam/shopkit/pkg/utils"
)

// coldStart 产出冷启动推荐：热度排行优先，目录顺序补足。
// 没有热度数据时结果就是目录顺序的前 N 个。
func (a *Arbiter) coldStart(ctx context.Context, rctx *core.RecommendContext, actx *core.AssembledContext) []core.Recommendation {
	sources := []recall.Source{}
	if a.PopularStore != nil && a.PopularKey != "" {
		sources = append(sources, &recall.Popular{
			Store:    a.PopularStore,
			Key:      a.PopularKey,
			Products: actx.Catalog,
		})
	}
	sources = append(sources, &recall.CatalogOrder{Products: actx.Catalog})

	items := runPipeline(ctx, rctx, []pipeline.Node{
		&recall.Fanout{Sources: sources, Dedup: true},
		topN(a.maxRecs()),
	})
	return toRecommendations(items, func(it *core.Item) string {
		return "popular item"
	})
}

// fallback 是规则兜底：
// 偏好类目非空时，只在“未交互 + 类目命中偏好”的商品里按目录顺序取前 N；
// 否则在未交互商品里按目录顺序取前 N。对相同上下文幂等。
func (a *Arbiter) fallback(ctx context.Context, rctx *core.RecommendContext, actx *core.AssembledContext) []core.Recommendation {
	filters := []filter.Filter{
		filter.NewInteracted(actx.Viewed, actx.Cart, actx.Purchased),
	}
	filters = append(filters, a.ExtraFilters...)

	var source pipeline.Node
	preferred := len(actx.PreferredCategories) > 0
	if preferred {
		source = &recall.Preferred{
			Products:   actx.Catalog,
			Categories: actx.PreferredCategories,
		}
	} else {
		source = &recall.CatalogOrder{Products: actx.Catalog}
	}

	items := runPipeline(ctx, rctx, []pipeline.Node{
		source,
		&filter.FilterNode{Filters: filters},
		topN(a.maxRecs()),
	})

	if preferred {
		return toRecommendations(items, func(it *core.Item) string {
			return "recommended based on your interest in " + it.Category("preferred_category")
		})
	}
	return toRecommendations(items, func(it *core.Item) string {
		return "popular " + it.Category("category") + " item"
	})
}

// toRecommendations 把候选转成对外的推荐条目，推荐理由写入 reason 标签。
func toRecommendations(items []*core.Item, reason func(*core.Item) string) []core.Recommendation {
	out := make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		r := reason(it)
		it.PutLabel("reason", utils.Label{Value: r, Source: "fallback"})
		out = append(out, core.Recommendation{
			ProductID: it.ID,
			Reason:    r,
			Labels:    it.Labels,
		})
	}
	return out
}
