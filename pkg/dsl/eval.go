package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shopkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	if celEnv == nil && err == nil {
		err = fmt.Errorf("cel env not initialized")
	}
	return celEnv, err
}

// Program 是一条编译好的规则表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次、多次求值，线程安全。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.price > 100.0 / item.score >= 0.5
//   - 标签：label.category == "Fruits"
//   - 逻辑：item.price < 50.0 && label.category != "Meat"
//   - 存在性：label.reason != null
//
// 示例：
//   - `item.price > 200.0` → 过滤高价商品
//   - `label.preferred_category == "Fruits"` → 只保留命中水果类目的候选
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译 CEL 表达式。表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式文本。
func (p *Program) Expr() string { return p.expr }

// EvalItem 对单个候选求值，返回布尔结果。
func (p *Program) EvalItem(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		// 访问不存在的 key 时 CEL 会报错；应使用 label.key != null 检查存在性
		return false, fmt.Errorf("eval error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
// label.xxx 直接取 Label.Value，方便书写；item.price / item.category 等来自 Meta。
func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	labelAccessor := make(map[string]any, len(it.Labels))
	for k, v := range it.Labels {
		labelAccessor[k] = v.Value
	}

	item := map[string]any{
		"id":    it.ID,
		"score": it.Score,
	}
	for k, v := range it.Meta {
		item[k] = v
	}

	rctxMap := map[string]any{}
	if rctx != nil {
		rctxMap["user_id"] = rctx.UserID
		rctxMap["current_page"] = rctx.CurrentPage
		rctxMap["params"] = rctx.Params
	}

	return map[string]any{
		"item":  item,
		"label": labelAccessor,
		"rctx":  rctxMap,
	}
}
