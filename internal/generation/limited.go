package generation

import (
	"context"

	"github.com/talekeeper/chronicle/internal/ratelimit"
)

// Limited wraps a Generator with the sliding-window limiter so every call
// waits for a slot before reaching the backend.
type Limited struct {
	inner   Generator
	limiter *ratelimit.GenerationLimiter
}

// NewLimited pairs a generator with a limiter.
func NewLimited(inner Generator, limiter *ratelimit.GenerationLimiter) *Limited {
	return &Limited{inner: inner, limiter: limiter}
}

// Generate waits for a request slot, forwards the call, and records the
// request once it has been issued. A request that errors after reaching the
// backend still counts against the window.
func (l *Limited) Generate(ctx context.Context, messages []Message, settings Settings) (string, error) {
	if err := l.limiter.WaitForSlot(ctx); err != nil {
		return "", err
	}
	content, err := l.inner.Generate(ctx, messages, settings)
	l.limiter.RecordRequest()
	return content, err
}
