package llm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval 是相邻两次后端调用之间的默认最小间隔。
const DefaultMinInterval = 2500 * time.Millisecond

// SpacingLimiter 在进程范围内保证相邻后端调用之间的最小间隔。
// 提前到达的调用被延迟（而不是拒绝）到间隔期满后放行。
//
// 内部基于 golang.org/x/time/rate（burst 为 1 的令牌桶即最小间隔语义），
// 时钟与休眠可注入，测试无需真实等待。
type SpacingLimiter struct {
	mu  sync.Mutex
	lim *rate.Limiter

	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewSpacingLimiter 创建限速器。interval <= 0 时使用 DefaultMinInterval。
func NewSpacingLimiter(interval time.Duration, opts ...SpacingOption) *SpacingLimiter {
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	l := &SpacingLimiter{
		lim:      rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SpacingOption 配置 SpacingLimiter。
type SpacingOption func(*SpacingLimiter)

// WithClock 注入时钟与休眠实现（测试用）。
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) SpacingOption {
	return func(l *SpacingLimiter) {
		if now != nil {
			l.now = now
		}
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait 阻塞直到允许下一次调用。ctx 取消时归还预约并返回错误。
func (l *SpacingLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := l.now()
	res := l.lim.ReserveN(now, 1)
	delay := res.DelayFrom(now)
	l.mu.Unlock()

	if delay <= 0 {
		return nil
	}
	if err := l.sleep(ctx, delay); err != nil {
		l.mu.Lock()
		res.CancelAt(l.now())
		l.mu.Unlock()
		return err
	}
	return nil
}

// NextAllowed 返回下一次调用最早被放行的时间点（只读查询，不消耗配额）。
func (l *SpacingLimiter) NextAllowed() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	tokens := l.lim.TokensAt(now)
	if tokens >= 1 {
		return now
	}
	wait := time.Duration(float64(l.interval) * (1 - tokens))
	return now.Add(wait)
}

// Interval 返回配置的最小间隔。
func (l *SpacingLimiter) Interval() time.Duration { return l.interval }
