// Package engine 是推荐引擎的装配层：串起 Store、目录、历史打分、
// 交互记录与仲裁层，对外提供 Record / Recommend 两个入口。
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shopkit/arbiter"
	"github.com/rushteam/shopkit/catalog"
	"github.com/rushteam/shopkit/config"
	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/filter"
	"github.com/rushteam/shopkit/history"
	"github.com/rushteam/shopkit/llm"
)

// Engine 是推荐引擎门面。
type Engine struct {
	store    core.Store
	catalog  core.CatalogService
	scorer   *history.Scorer
	recorder *history.Recorder
	arbiter  *arbiter.Arbiter
}

// New 按配置装配引擎。backend 为 nil 表示未配置 AI（本会话永久走兜底）。
// backend 非 nil 时自动叠加熔断与最小间隔限速。
func New(s core.Store, cat core.CatalogService, backend core.TextBackend, cfg config.Engine) (*Engine, error) {
	recorder := &history.Recorder{
		Store:      s,
		Retention:  cfg.Retention,
		PopularKey: catalog.DefaultPopularKey,
	}

	scorer := &history.Scorer{TopK: cfg.Limits.TopCategories}

	extraFilters := make([]filter.Filter, 0, len(cfg.Rules))
	for _, expr := range cfg.Rules {
		f, err := filter.NewRule(expr)
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", expr, err)
		}
		extraFilters = append(extraFilters, f)
	}

	arb := &arbiter.Arbiter{
		MaxRecommendations: cfg.Limits.MaxRecommendations,
		ViewedWindow:       cfg.Limits.ViewedWindow,
		PurchasedWindow:    cfg.Limits.PurchasedWindow,
		ExtraFilters:       extraFilters,
		PopularStore:       s,
		PopularKey:         catalog.DefaultPopularKey,
	}
	if backend != nil {
		arb.Backend = llm.NewBreaker(backend, cfg.Backend.Breaker)
		arb.Limiter = llm.NewSpacingLimiter(cfg.MinInterval())
	}

	return &Engine{
		store:    s,
		catalog:  cat,
		scorer:   scorer,
		recorder: recorder,
		arbiter:  arb,
	}, nil
}

// Record 记录一次交互事件（浏览/加购/购买）。
func (e *Engine) Record(ctx context.Context, userID string, kind core.ActionKind, p core.Product) error {
	return e.recorder.Record(ctx, userID, kind, p)
}

// Recommend 装配上下文并产出一次推荐。
// 三个交互流与目录快照并发加载；快照为空不算错误（仲裁层会返回
// 带解释说明的空结果），存储读取失败才返回 error。
func (e *Engine) Recommend(ctx context.Context, userID, currentPage string) (*core.RecommendationResult, error) {
	actx := &core.AssembledContext{CurrentPage: currentPage}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		actx.Viewed, err = e.recorder.Load(egCtx, userID, core.ActionView)
		return err
	})
	eg.Go(func() (err error) {
		actx.Cart, err = e.recorder.Load(egCtx, userID, core.ActionCart)
		return err
	})
	eg.Go(func() (err error) {
		actx.Purchased, err = e.recorder.Load(egCtx, userID, core.ActionPurchase)
		return err
	})
	eg.Go(func() error {
		products, err := e.catalog.All(egCtx)
		if err != nil && !core.IsNotFound(err) {
			return err
		}
		actx.Catalog = products
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	actx.PreferredCategories = e.scorer.PreferredCategories(actx.Viewed, actx.Cart, actx.Purchased)

	rctx := &core.RecommendContext{
		UserID:      userID,
		CurrentPage: currentPage,
	}
	return e.arbiter.Recommend(ctx, rctx, actx), nil
}

// Catalog 暴露目录服务（搜索、类目浏览等边缘操作直接使用）。
func (e *Engine) Catalog() core.CatalogService { return e.catalog }
