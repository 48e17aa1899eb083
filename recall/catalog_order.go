package recall

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
)

// CatalogOrder 是目录顺序召回源：按目录快照原始顺序产出全部候选。
// 用于无个性化信号时的通用兜底（"popular <category> item"）。
// CatalogOrder 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type CatalogOrder struct {
	// Products 是本次请求使用的目录快照
	Products []core.Product
}

func (r *CatalogOrder) Name() string        { return "recall.catalog_order" }
func (r *CatalogOrder) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *CatalogOrder) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *CatalogOrder) Recall(
	_ context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	out := make([]*core.Item, 0, len(r.Products))
	for _, p := range r.Products {
		it := core.ProductItem(p)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
