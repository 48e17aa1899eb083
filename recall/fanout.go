package recall

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，按优先级合并结果。
//
// 合并规则：各源结果按 Sources 的声明顺序拼接（索引越小优先级越高），
// 源内部保持各自的产出顺序；Dedup 开启时相同 ID 保留优先级更高的那个，
// 后到者的 labels 合并进保留项。结果对相同输入是确定性的，
// 兜底路径的幂等性依赖这一点。
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	// 每个源写入自己的槽位，Wait 后按槽位顺序合并，保证确定性
	slots := make([][]*core.Item, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时该源产出为空，不中断其他召回源
				return nil
			}
			slots[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return n.merge(slots), nil
}

// merge 按槽位顺序拼接，Dedup 时相同 ID 保留先出现的（优先级更高的源）。
func (n *Fanout) merge(slots [][]*core.Item) []*core.Item {
	var out []*core.Item
	seen := make(map[int64]*core.Item)

	for i, items := range slots {
		srcName := n.Sources[i].Name()
		for _, it := range items {
			if it == nil {
				continue
			}
			it.PutLabel("recall_priority", utils.Label{
				Value:  srcName,
				Source: "recall",
			})
			if n.Dedup {
				if old, ok := seen[it.ID]; ok {
					for k, v := range it.Labels {
						old.PutLabel(k, v)
					}
					continue
				}
				seen[it.ID] = it
			}
			out = append(out, it)
		}
	}
	return out
}
