// Package intent 实现购物助手的会话意图路由：
// 把自由文本按模式匹配成结构化动作。纯本地、确定性，不依赖外部调用。
package intent

import (
	"regexp"
	"strings"
)

// Kind 是识别出的意图类型。
type Kind string

const (
	KindGreeting       Kind = "greeting"
	KindHelp           Kind = "help"
	KindSearch         Kind = "search"
	KindRecommend      Kind = "recommend"
	KindAddToCart      Kind = "add_to_cart"
	KindPriceQuery     Kind = "price_query"
	KindCategoryBrowse Kind = "category_browse"
	KindUnknown        Kind = "unknown"
)

// Intent 是路由结果：意图类型 + 提取出的参数。
type Intent struct {
	Kind     Kind
	Query    string // search / add_to_cart / price_query 提取的商品描述
	Category string // category_browse 命中的类目
}

var (
	reGreeting  = regexp.MustCompile(`^(hi|hello|hey|good (morning|afternoon|evening))\b`)
	reHelp      = regexp.MustCompile(`\b(help|what can you do|how does this work)\b`)
	reAddToCart = regexp.MustCompile(`\b(?:add|put)\s+(.+?)\s+(?:to|in|into)\s+(?:my\s+)?(?:cart|basket)\b`)
	reBuy       = regexp.MustCompile(`^(?:buy|purchase)\s+(.+)$`)
	rePrice     = regexp.MustCompile(`\b(?:how much (?:is|are|for)|price of|cost of)\s+(.+)$`)
	reRecommend = regexp.MustCompile(`\b(recommend|suggest|what should i (buy|get))\b`)
	reSearch    = regexp.MustCompile(`\b(?:find|search for|show me|looking for|do you have|i want)\s+(.+)$`)
)

// Router 把自由文本路由成 Intent。
// Categories 是已知类目标签，用于识别“浏览某类目”的意图。
type Router struct {
	Categories []string
}

func NewRouter(categories ...string) *Router {
	return &Router{Categories: categories}
}

// Route 按固定优先级匹配：问候/帮助 → 加购 → 价格 → 推荐 → 搜索 → 类目浏览。
// 全部不命中时返回 KindUnknown，原文本放入 Query 供上层自行处理。
func (r *Router) Route(text string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Intent{Kind: KindUnknown}
	}

	if reGreeting.MatchString(normalized) {
		return Intent{Kind: KindGreeting}
	}
	if reHelp.MatchString(normalized) {
		return Intent{Kind: KindHelp}
	}
	if m := reAddToCart.FindStringSubmatch(normalized); m != nil {
		return Intent{Kind: KindAddToCart, Query: cleanQuery(m[1])}
	}
	if m := reBuy.FindStringSubmatch(normalized); m != nil {
		return Intent{Kind: KindAddToCart, Query: cleanQuery(m[1])}
	}
	if m := rePrice.FindStringSubmatch(normalized); m != nil {
		return Intent{Kind: KindPriceQuery, Query: cleanQuery(m[1])}
	}
	if reRecommend.MatchString(normalized) {
		return Intent{Kind: KindRecommend}
	}
	if m := reSearch.FindStringSubmatch(normalized); m != nil {
		return Intent{Kind: KindSearch, Query: cleanQuery(m[1])}
	}
	if cate := r.matchCategory(normalized); cate != "" {
		return Intent{Kind: KindCategoryBrowse, Category: cate}
	}

	return Intent{Kind: KindUnknown, Query: normalized}
}

// matchCategory 返回文本中命中的第一个已知类目（按 Categories 的声明顺序）。
func (r *Router) matchCategory(text string) string {
	for _, c := range r.Categories {
		if c == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(c)) {
			return c
		}
	}
	return ""
}

// cleanQuery 去掉冠词和客套尾缀，保留商品描述本身。
func cleanQuery(q string) string {
	q = strings.TrimSpace(q)
	for _, prefix := range []string{"a ", "an ", "the ", "some "} {
		if strings.HasPrefix(q, prefix) {
			q = q[len(prefix):]
			break
		}
	}
	q = strings.TrimSuffix(q, "?")
	q = strings.TrimSuffix(q, ".")
	q = strings.TrimSuffix(q, " please")
	return strings.TrimSpace(q)
}
