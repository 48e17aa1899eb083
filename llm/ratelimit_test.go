package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock drives a SpacingLimiter without real waiting: sleep advances
// the clock instead of blocking.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	refuse error
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.refuse != nil {
		return c.refuse
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func newTestLimiter(interval time.Duration) (*SpacingLimiter, *fakeClock) {
	clk := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	l := NewSpacingLimiter(interval, WithClock(clk.Now, clk.Sleep))
	return l, clk
}

func TestSpacingLimiterFirstCallImmediate(t *testing.T) {
	l, clk := newTestLimiter(2500 * time.Millisecond)

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if len(clk.slept) != 0 {
		t.Errorf("first call slept %v, want no delay", clk.slept)
	}
}

func TestSpacingLimiterSpacesConsecutiveCalls(t *testing.T) {
	interval := 2500 * time.Millisecond
	l, clk := newTestLimiter(interval)
	ctx := context.Background()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if len(clk.slept) != 1 {
		t.Fatalf("second call slept %d times, want 1", len(clk.slept))
	}
	if got := clk.slept[0]; got != interval {
		t.Errorf("second call delayed %v, want %v", got, interval)
	}
}

func TestSpacingLimiterIdleElapsesNoDelay(t *testing.T) {
	interval := 2 * time.Second
	l, clk := newTestLimiter(interval)
	ctx := context.Background()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	// The interval passes with no calls; the next one goes straight through.
	clk.now = clk.now.Add(3 * time.Second)
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if len(clk.slept) != 0 {
		t.Errorf("call after idle period slept %v, want no delay", clk.slept)
	}
}

func TestSpacingLimiterCancelledContext(t *testing.T) {
	l, clk := newTestLimiter(time.Second)
	clk.refuse = context.Canceled
	ctx := context.Background()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if err := l.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want context.Canceled", err)
	}

	// The cancelled reservation was returned; the next call after the
	// original interval should not pay for it twice.
	clk.refuse = nil
	clk.now = clk.now.Add(time.Second)
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if len(clk.slept) != 0 {
		t.Errorf("call after cancellation slept %v, want no delay", clk.slept)
	}
}

func TestSpacingLimiterNextAllowed(t *testing.T) {
	interval := 2 * time.Second
	l, clk := newTestLimiter(interval)
	ctx := context.Background()

	// Fresh limiter: next call is allowed now.
	if got := l.NextAllowed(); !got.Equal(clk.now) {
		t.Errorf("NextAllowed() = %v, want %v", got, clk.now)
	}

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	got := l.NextAllowed()
	want := clk.now.Add(interval)
	if d := got.Sub(want); d < -time.Millisecond || d > time.Millisecond {
		t.Errorf("NextAllowed() = %v, want about %v", got, want)
	}
}

func TestSpacingLimiterDefaultInterval(t *testing.T) {
	l := NewSpacingLimiter(0)
	if l.Interval() != DefaultMinInterval {
		t.Errorf("Interval() = %v, want %v", l.Interval(), DefaultMinInterval)
	}
}
