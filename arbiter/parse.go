package arbiter

import (
	"encoding/json"
	"strings"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/conv"
	"github.com/rushteam/shopkit/pkg/utils"
)

// aiSuggestion 是后端响应中单条建议的宽松形态。
// 后端不保证 schema：productId 可能是数字也可能是数字字符串。
type aiSuggestion struct {
	ProductID any    `json:"productId"`
	Reason    string `json:"reason"`
}

// validateSuggestions 对后端响应做 parse-then-validate：
// 剥掉代码围栏 → 解析 JSON 数组 → 规整 ID →
// 丢弃非正数 ID 和不在目录快照中的 ID → 截断到 n 条。
// 解析失败或全部条目被丢弃时返回空，绝不抛错。
func validateSuggestions(raw string, index map[int64]core.Product, n int) []core.Recommendation {
	text := stripCodeFence(raw)
	if text == "" {
		return nil
	}

	var suggestions []aiSuggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil
	}

	out := make([]core.Recommendation, 0, len(suggestions))
	for _, s := range suggestions {
		id, ok := conv.ToProductID(s.ProductID)
		if !ok {
			continue
		}
		p, ok := index[id]
		if !ok {
			continue // 不变式：不得引用目录快照之外的商品
		}
		rec := core.Recommendation{
			ProductID: id,
			Reason:    s.Reason,
			Labels: map[string]utils.Label{
				"reason":   {Value: s.Reason, Source: "ai"},
				"category": {Value: p.Category, Source: "ai"},
			},
		}
		out = append(out, rec)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// stripCodeFence 剥掉响应外层的 Markdown 代码围栏（```json ... ```）。
// 后端开启 JSON MIME 时通常没有围栏，但不能依赖这一点。
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		// 去掉首行围栏（可能带语言标记）
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}

	s = strings.Trim(s, "`")
	s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	return strings.TrimSpace(s)
}
