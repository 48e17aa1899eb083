package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
)

// Popular 是热度召回源，从 Store 的有序集合读取热度排行。
// - 如果 Store 实现了 KeyValueStore，使用 ZRange（按购买热度降序）
// - 排行中不在当前目录快照里的 ID 被跳过（推荐不得引用未知商品）
// - 如果 Store 为空或没有热度数据，使用内存中的 IDs 作为 fallback
type Popular struct {
	Store core.Store
	Key   string // 热度排行 key，例如 "catalog:popular"

	// Products 是本次请求使用的目录快照，用于解析 ID 与填充元信息
	Products []core.Product

	// IDs 是 fallback 内存排行
	IDs []int64

	// TopK 限制召回数量，0 表示不限制
	TopK int
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Popular) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Popular) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	var ids []int64

	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kvStore.ZRange(ctx, r.Key, 0, 99)
			if err == nil && len(members) > 0 {
				ids = make([]int64, 0, len(members))
				for _, m := range members {
					if id, err := strconv.ParseInt(m, 10, 64); err == nil {
						ids = append(ids, id)
					}
				}
			}
		}
	}

	// Fallback：使用内存 IDs
	if len(ids) == 0 {
		ids = r.IDs
	}

	// 无快照时（配置驱动的独立 Pipeline）产出裸 Item，目录校验交给下游
	var index map[int64]core.Product
	if len(r.Products) > 0 {
		index = core.IndexProducts(r.Products)
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		var it *core.Item
		if index != nil {
			p, ok := index[id]
			if !ok {
				continue // 排行残留的下架商品
			}
			it = core.ProductItem(p)
		} else {
			it = core.NewItem(id)
		}
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
		if r.TopK > 0 && len(out) >= r.TopK {
			break
		}
	}
	return out, nil
}
