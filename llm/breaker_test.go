package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/shopkit/core"
)

type flakyBackend struct {
	err   error
	calls int
}

func (f *flakyBackend) Name() string { return "flaky" }

func (f *flakyBackend) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "[]", nil
}

func TestBreakerPassThrough(t *testing.T) {
	backend := &flakyBackend{}
	b := NewBreaker(backend, BreakerConfig{})

	out, err := b.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if out != "[]" {
		t.Errorf("Complete() = %q, want backend response", out)
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	backend := &flakyBackend{err: errors.New("upstream down")}
	b := NewBreaker(backend, BreakerConfig{FailureThreshold: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := b.Complete(ctx, "p"); err == nil {
			t.Fatalf("call %d: error = nil, want upstream error", i)
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() after threshold = %q, want open", b.State())
	}

	// Open circuit short-circuits without touching the backend.
	callsBefore := backend.calls
	_, err := b.Complete(ctx, "p")
	if !core.IsUnavailable(err) {
		t.Errorf("Complete() with open circuit error = %v, want backend unavailable", err)
	}
	if backend.calls != callsBefore {
		t.Errorf("backend called while circuit open: %d -> %d", callsBefore, backend.calls)
	}
}

func TestBreakerBelowThresholdStaysClosed(t *testing.T) {
	backend := &flakyBackend{err: errors.New("upstream down")}
	b := NewBreaker(backend, BreakerConfig{FailureThreshold: 5})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		b.Complete(ctx, "p")
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed below threshold", b.State())
	}

	// Upstream errors pass through unchanged while closed.
	_, err := b.Complete(ctx, "p")
	if core.IsUnavailable(err) {
		// The fifth failure trips the breaker, but this call itself still
		// carries the upstream error.
		t.Errorf("Complete() error = %v, want raw upstream error", err)
	}
}

func TestBreakerName(t *testing.T) {
	b := NewBreaker(&flakyBackend{}, BreakerConfig{})
	if b.Name() != "flaky.breaker" {
		t.Errorf("Name() = %q, want flaky.breaker", b.Name())
	}
}
