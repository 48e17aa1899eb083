package core

import "github.com/rushteam/shopkit/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选商品 + 分数 + 元信息 + 标签。
// Labels 用于解释与策略驱动（例如推荐理由、召回来源）；Score 用于排序决策。
type Item struct {
	ID     int64
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// ProductItem 从商品快照构建 Item，类目/名称/价格写入 Meta 供过滤与解释使用。
func ProductItem(p Product) *Item {
	it := NewItem(p.ID)
	it.Meta["name"] = p.Name
	it.Meta["category"] = p.Category
	it.Meta["price"] = p.Price
	return it
}

// Category 返回 Item 的类目，优先取 label，其次取 meta。
func (it *Item) Category(labelKey string) string {
	if labelKey == "" {
		labelKey = "category"
	}
	if it.Labels != nil {
		if lbl, ok := it.Labels[labelKey]; ok && lbl.Value != "" {
			return lbl.Value
		}
	}
	if it.Meta != nil {
		if s, ok := it.Meta[labelKey].(string); ok {
			return s
		}
	}
	return ""
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
