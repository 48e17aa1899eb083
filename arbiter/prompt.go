package arbiter

import (
	"fmt"
	"strings"

	"github.com/rushteam/shopkit/core"
)

// BuildPrompt 组装发给生成式后端的提示词：
// 最近 viewedWindow 条浏览、全量购物车、最近 purchasedWindow 条购买、
// 偏好类目、当前页面、完整目录快照；要求严格输出 n 条、覆盖不同类目的
// JSON 数组，除数组外不输出任何内容。
func BuildPrompt(actx *core.AssembledContext, viewedWindow, purchasedWindow, n int) string {
	var sb strings.Builder

	sb.WriteString("You are a shopping assistant for a fresh-produce marketplace. ")
	sb.WriteString("Recommend products to the user based on their behavior.\n\n")

	writeInteractions(&sb, "Recently viewed", lastN(actx.Viewed, viewedWindow))
	writeInteractions(&sb, "In cart", actx.Cart)
	writeInteractions(&sb, "Recently purchased", lastN(actx.Purchased, purchasedWindow))

	if len(actx.PreferredCategories) > 0 {
		sb.WriteString("Preferred categories (most preferred first): ")
		sb.WriteString(strings.Join(actx.PreferredCategories, ", "))
		sb.WriteString("\n")
	}
	if actx.CurrentPage != "" {
		sb.WriteString("Current page: ")
		sb.WriteString(actx.CurrentPage)
		sb.WriteString("\n")
	}

	sb.WriteString("\nAvailable products:\n")
	for _, p := range actx.Catalog {
		fmt.Fprintf(&sb, "- id=%d name=%q category=%q price=%.2f\n", p.ID, p.Name, p.Category, p.Price)
	}

	fmt.Fprintf(&sb, "\nSuggest exactly %d products across distinct categories. ", n)
	sb.WriteString("For each, give the numeric product id and a short justification. ")
	sb.WriteString("Respond with a JSON array of objects ")
	sb.WriteString(`[{"productId": <number>, "reason": "<short justification>"}]`)
	sb.WriteString(" and nothing else.")

	return sb.String()
}

func writeInteractions(sb *strings.Builder, title string, records []core.Interaction) {
	if len(records) == 0 {
		return
	}
	sb.WriteString(title)
	sb.WriteString(":\n")
	for _, in := range records {
		fmt.Fprintf(sb, "- id=%d name=%q category=%q\n", in.ProductID, in.Name, in.Category)
	}
}

// lastN 取序列末尾的最近 n 条。
func lastN(records []core.Interaction, n int) []core.Interaction {
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}
