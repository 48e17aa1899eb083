package core

import "github.com/rushteam/shopkit/pkg/utils"

// RecommendContext 承载用户/场景信息，贯穿整个推荐链路透传。
type RecommendContext struct {
	UserID string

	// CurrentPage 是请求发起时用户所在的页面标签（home / cart / product 等），
	// 会进入 AI 提示词，用于场景化推荐。
	CurrentPage string

	// Labels 是用户级标签，可驱动过滤/重排行为（例如冷启动标记）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（query、device_type 等）。
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
