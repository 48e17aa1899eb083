package filter

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/dsl"
)

// Rule 是配置驱动的规则过滤器：表达式求值为 true 的候选被过滤掉。
// 表达式使用 CEL 语法，编译一次、每个候选求值一次。
//
// 示例：
//   - `item.price > 200.0` → 剔除高价商品
//   - `label.category == "Meat"` → 剔除指定类目
type Rule struct {
	prog *dsl.Program
}

// NewRule 编译表达式并创建规则过滤器。
func NewRule(expr string) (*Rule, error) {
	prog, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Rule{prog: prog}, nil
}

func (f *Rule) Name() string {
	return "filter.rule(" + f.prog.Expr() + ")"
}

func (f *Rule) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return false, nil
	}
	return f.prog.EvalItem(item, rctx)
}
