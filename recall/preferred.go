package recall

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
)

// Preferred 是偏好类目召回源：按目录快照顺序产出类目命中偏好集合的候选。
// 命中的类目写入 "preferred_category" 标签，供下游生成推荐理由
// （"recommended based on your interest in <category>"）。
type Preferred struct {
	// Products 是本次请求使用的目录快照
	Products []core.Product

	// Categories 是 HistoryScorer 产出的有序偏好类目
	Categories []string
}

func (r *Preferred) Name() string        { return "recall.preferred" }
func (r *Preferred) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Preferred) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Preferred) Recall(
	_ context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if len(r.Categories) == 0 {
		return nil, nil
	}

	preferred := make(map[string]bool, len(r.Categories))
	for _, c := range r.Categories {
		preferred[c] = true
	}

	out := make([]*core.Item, 0, len(r.Products))
	for _, p := range r.Products {
		if !preferred[p.Category] {
			continue
		}
		it := core.ProductItem(p)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		it.PutLabel("preferred_category", utils.Label{Value: p.Category, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
