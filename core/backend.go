package core

import "context"

// TextBackend 是生成式语言后端的文本补全接口。
//
// 请求是一个自然语言提示词，响应是一段文本（期望包含 JSON 数组，
// 可能被代码围栏包裹）。后端本身不保证任何结构，所有结构校验
// 由调用方的 parse-then-validate 步骤完成。
//
// 实现：
//   - llm.Gemini（google.golang.org/genai）
//   - llm.Breaker（熔断装饰器，可叠加在任意 TextBackend 上）
type TextBackend interface {
	// Name 返回后端名称（用于熔断器/观测）
	Name() string

	// Complete 发送提示词并返回文本响应
	Complete(ctx context.Context, prompt string) (string, error)
}

// Backend 错误定义
var (
	// ErrBackendUnavailable 表示后端不可用（未配置 / 熔断打开）
	ErrBackendUnavailable = NewDomainError(ModuleBackend, ErrorCodeUnavailable, "backend: unavailable")

	// ErrBackendQuota 表示配额耗尽或被限流
	ErrBackendQuota = NewDomainError(ModuleBackend, ErrorCodeQuotaExceeded, "backend: quota exceeded or rate limited")
)
