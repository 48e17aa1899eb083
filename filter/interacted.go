package filter

import (
	"context"

	"github.com/rushteam/shopkit/core"
)

// Interacted 过滤掉用户已经交互过（浏览/加购/购买）的商品。
// ID 集合在请求装配时从三个交互流一次性构建，过滤本身不访问存储。
type Interacted struct {
	IDs map[int64]bool
}

// NewInteracted 从交互流构建过滤器。
func NewInteracted(streams ...[]core.Interaction) *Interacted {
	return &Interacted{IDs: core.InteractedIDs(streams...)}
}

func (f *Interacted) Name() string {
	return "filter.interacted"
}

func (f *Interacted) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || len(f.IDs) == 0 {
		return false, nil
	}
	return f.IDs[item.ID], nil
}
