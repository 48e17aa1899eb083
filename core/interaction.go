package core

import "time"

// ActionKind 是交互行为类型：浏览 / 加购 / 购买。
type ActionKind string

const (
	ActionView     ActionKind = "view"
	ActionCart     ActionKind = "cart"
	ActionPurchase ActionKind = "purchase"
)

// Kinds 返回所有行为类型，按 view / cart / purchase 固定顺序。
func Kinds() []ActionKind {
	return []ActionKind{ActionView, ActionCart, ActionPurchase}
}

// Interaction 是一条用户交互记录。
// Category 是商品类目的冗余拷贝：即使目录后续整体刷新，历史记录仍可用于打分。
// 记录只追加、只批量裁剪，从不单条修改或删除。
type Interaction struct {
	ProductID int64      `json:"product_id"`
	Name      string     `json:"name,omitempty"`
	Category  string     `json:"category"`
	Kind      ActionKind `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`
}

// InteractedIDs 汇总多个交互流中出现过的商品 ID 集合。
func InteractedIDs(streams ...[]Interaction) map[int64]bool {
	ids := make(map[int64]bool)
	for _, stream := range streams {
		for _, in := range stream {
			ids[in.ProductID] = true
		}
	}
	return ids
}
