package core

import (
	"time"

	"github.com/rushteam/shopkit/pkg/utils"
)

// Provenance 标记推荐结果的来源：外部 AI 生成 / 本地规则兜底。
type Provenance string

const (
	ProvenanceAI       Provenance = "ai-sourced"
	ProvenanceFallback Provenance = "fallback"
)

// Recommendation 是单条推荐：商品 ID + 人类可读的推荐理由。
// Labels 透传链路上的解释信息（召回来源、命中类目等），不参与序列化契约。
type Recommendation struct {
	ProductID int64                  `json:"product_id"`
	Reason    string                 `json:"reason"`
	Labels    map[string]utils.Label `json:"-"`
}

// AssembledContext 是单次推荐请求装配好的上下文快照。
// 不变式：所有推荐最终引用的商品必须存在于本快照的 Catalog 中。
type AssembledContext struct {
	Catalog             []Product
	Viewed              []Interaction
	Cart                []Interaction
	Purchased           []Interaction
	PreferredCategories []string
	CurrentPage         string
}

// ColdStart 判断是否冷启动：三个交互流全部为空。
func (actx *AssembledContext) ColdStart() bool {
	return len(actx.Viewed) == 0 && len(actx.Cart) == 0 && len(actx.Purchased) == 0
}

// InteractedIDs 返回三个交互流涉及的商品 ID 集合。
func (actx *AssembledContext) InteractedIDs() map[int64]bool {
	return InteractedIDs(actx.Viewed, actx.Cart, actx.Purchased)
}

// ProductIndex 返回目录快照的 ID 索引。
func (actx *AssembledContext) ProductIndex() map[int64]Product {
	return IndexProducts(actx.Catalog)
}

// RecommendationResult 是一次推荐请求的完整结果：
// 推荐列表 + 产生它的上下文快照 + 来源标记 + 生成时间。
// 仅随请求返回，不持久化。
type RecommendationResult struct {
	Recommendations []Recommendation
	Provenance      Provenance
	Context         *AssembledContext
	GeneratedAt     time.Time

	// Message 在无法给出推荐时（如目录为空）给出解释性说明。
	Message string
}
