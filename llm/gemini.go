// Package llm 提供生成式语言后端的实现与调用治理（限速、熔断）。
package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/rushteam/shopkit/core"
)

// DefaultGeminiModel 是默认使用的模型。
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini 是 google.golang.org/genai 实现的 TextBackend。
// 响应 MIME 固定为 application/json：提示词要求后端只返回 JSON 数组，
// 结构校验仍由仲裁层完成（后端不保证任何 schema）。
type Gemini struct {
	client      *genai.Client
	Model       string
	Temperature float32
}

// NewGemini 创建 Gemini 后端。model 为空时使用 DefaultGeminiModel。
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, core.ErrBackendUnavailable
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, Model: model, Temperature: 0.7}, nil
}

var _ core.TextBackend = (*Gemini)(nil)

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	temp := g.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt), cfg)
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", core.ErrBackendQuota, err)
		}
		return "", fmt.Errorf("gemini: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", core.NewDomainError(core.ModuleBackend, core.ErrorCodeInternalError, "gemini: no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", core.NewDomainError(core.ModuleBackend, core.ErrorCodeInternalError, "gemini: no content in response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", core.NewDomainError(core.ModuleBackend, core.ErrorCodeInternalError, "gemini: empty response text")
	}
	return text, nil
}

// isQuotaError 识别配额/限流类错误（与 Gemini API 的错误表述保持一致）。
func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
