// Package arbiter 是推荐仲裁层：优先使用 AI 生成的推荐列表，
// 校验失败或后端不可用时退回本地规则兜底，保证任何路径都产出可用结果。
package arbiter

import (
	"context"
	"time"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/filter"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/recall"
	"github.com/rushteam/shopkit/rerank"
)

const (
	// DefaultMaxRecommendations 是单次请求的推荐数量
	DefaultMaxRecommendations = 5

	// DefaultViewedWindow 是进入提示词的最近浏览条数
	DefaultViewedWindow = 10

	// DefaultPurchasedWindow 是进入提示词的最近购买条数
	DefaultPurchasedWindow = 5
)

// Limiter 是后端调用限速接口（llm.SpacingLimiter 实现）。
type Limiter interface {
	Wait(ctx context.Context) error
}

// Arbiter 产出 RecommendationResult。
//
// 决策顺序：
//  1. 目录为空 → 空结果 + 解释说明
//  2. 冷启动（三个交互流全空）→ 热门/目录顺序兜底，不浪费外部调用
//  3. 配置了后端 → 限速后发起 AI 调用，strip/parse/validate 响应
//  4. 其余一切路径 → 规则兜底（偏好类目优先）
//
// 错误边界：任何后端/解析错误都不会越过本层，调用方总能拿到合法结果；
// 结果只能通过 Provenance 区分 AI 与兜底。
type Arbiter struct {
	// Backend 为 nil 表示未配置 AI，后者是永久兜底的会话
	Backend core.TextBackend

	// Limiter 为 nil 表示不限速
	Limiter Limiter

	// MaxRecommendations <= 0 时使用 DefaultMaxRecommendations
	MaxRecommendations int

	// ViewedWindow / PurchasedWindow <= 0 时使用默认窗口
	ViewedWindow    int
	PurchasedWindow int

	// ExtraFilters 是配置驱动的附加过滤器（CEL 规则等），作用于兜底路径
	ExtraFilters []filter.Filter

	// PopularStore/PopularKey 可选：冷启动时优先使用热度排行
	PopularStore core.Store
	PopularKey   string

	// Now 可注入时钟，默认 time.Now
	Now func() time.Time
}

func (a *Arbiter) maxRecs() int {
	if a.MaxRecommendations <= 0 {
		return DefaultMaxRecommendations
	}
	return a.MaxRecommendations
}

func (a *Arbiter) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Recommend 产出一次推荐。永不返回错误：所有失败都折叠进兜底路径。
func (a *Arbiter) Recommend(ctx context.Context, rctx *core.RecommendContext, actx *core.AssembledContext) *core.RecommendationResult {
	result := &core.RecommendationResult{
		Provenance:  core.ProvenanceFallback,
		Context:     actx,
		GeneratedAt: a.now(),
	}

	if len(actx.Catalog) == 0 {
		result.Message = "no products available to recommend"
		return result
	}

	// 冷启动：没有任何行为信号可供个性化，跳过 AI 调用
	if actx.ColdStart() {
		result.Recommendations = a.coldStart(ctx, rctx, actx)
		return result
	}

	if a.Backend != nil {
		if recs, ok := a.tryAI(ctx, actx); ok {
			result.Recommendations = recs
			result.Provenance = core.ProvenanceAI
			return result
		}
	}

	result.Recommendations = a.fallback(ctx, rctx, actx)
	return result
}

// tryAI 发起一次 AI 调用并校验响应。ok=false 表示本次结果不可用。
func (a *Arbiter) tryAI(ctx context.Context, actx *core.AssembledContext) ([]core.Recommendation, bool) {
	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			return nil, false
		}
	}

	prompt := BuildPrompt(actx, a.viewedWindow(), a.purchasedWindow(), a.maxRecs())
	raw, err := a.Backend.Complete(ctx, prompt)
	if err != nil {
		// 配额、网络、熔断……一律兜底，不重试
		return nil, false
	}

	recs := validateSuggestions(raw, actx.ProductIndex(), a.maxRecs())
	if len(recs) == 0 {
		return nil, false
	}
	return recs, true
}

func (a *Arbiter) viewedWindow() int {
	if a.ViewedWindow <= 0 {
		return DefaultViewedWindow
	}
	return a.ViewedWindow
}

func (a *Arbiter) purchasedWindow() int {
	if a.PurchasedWindow <= 0 {
		return DefaultPurchasedWindow
	}
	return a.PurchasedWindow
}

// runPipeline 执行兜底 Pipeline，失败时返回空（调用方自行决定退化路径）。
func runPipeline(ctx context.Context, rctx *core.RecommendContext, nodes []pipeline.Node) []*core.Item {
	p := &pipeline.Pipeline{Nodes: nodes}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil
	}
	return items
}

// topN 便捷构造。
func topN(n int) pipeline.Node { return &rerank.TopNNode{N: n} }

// 保证 recall 源满足 Source 接口（Fanout 依赖）
var (
	_ recall.Source = (*recall.Popular)(nil)
	_ recall.Source = (*recall.CatalogOrder)(nil)
	_ recall.Source = (*recall.Preferred)(nil)
)
