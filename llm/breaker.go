package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/shopkit/core"
)

// BreakerConfig 是熔断器配置。
type BreakerConfig struct {
	// FailureThreshold 连续失败多少次后打开熔断，0 时默认 3
	FailureThreshold uint32 `yaml:"failure_threshold" json:"failure_threshold"`

	// TimeoutSeconds 熔断打开后多久进入半开试探，<= 0 时默认 60
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Breaker 是 TextBackend 的熔断装饰器。
// 后端连续失败达到阈值后，后续调用立即返回 ErrBackendUnavailable，
// 调用方（仲裁层）随之直接走规则兜底，不再等待外部超时。
type Breaker struct {
	backend core.TextBackend
	cb      *gobreaker.CircuitBreaker[string]
}

// NewBreaker 包装一个后端。
func NewBreaker(backend core.TextBackend, cfg BreakerConfig) *Breaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 3
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    backend.Name(),
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	}

	return &Breaker{
		backend: backend,
		cb:      gobreaker.NewCircuitBreaker[string](settings),
	}
}

var _ core.TextBackend = (*Breaker)(nil)

func (b *Breaker) Name() string { return b.backend.Name() + ".breaker" }

// State 返回熔断器当前状态（用于观测）。
func (b *Breaker) State() string { return b.cb.State().String() }

func (b *Breaker) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (string, error) {
		return b.backend.Complete(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: circuit open", core.ErrBackendUnavailable)
		}
		return "", err
	}
	return out, nil
}
