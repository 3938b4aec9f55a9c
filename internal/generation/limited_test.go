package generation

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/talekeeper/chronicle/internal/platform/errors"
	"github.com/talekeeper/chronicle/internal/ratelimit"
)

type stubGenerator struct {
	calls   int
	content string
	err     error
}

func (s *stubGenerator) Generate(context.Context, []Message, Settings) (string, error) {
	s.calls++
	return s.content, s.err
}

func TestLimitedForwardsAndRecords(t *testing.T) {
	stub := &stubGenerator{content: "a quiet chapter ends"}
	limiter := ratelimit.NewGenerationLimiter(5)
	limited := NewLimited(stub, limiter)

	got, err := limited.Generate(context.Background(), []Message{{Role: RoleUser, Content: "describe"}}, Settings{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "a quiet chapter ends" {
		t.Fatalf("unexpected content %q", got)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one backend call, got %d", stub.calls)
	}
	if limiter.Pending() != 1 {
		t.Fatalf("expected recorded request, pending = %d", limiter.Pending())
	}
}

func TestLimitedRecordsFailedCalls(t *testing.T) {
	stub := &stubGenerator{err: apperrors.New(apperrors.CodeGenerationFailed, "backend down")}
	limiter := ratelimit.NewGenerationLimiter(5)
	limited := NewLimited(stub, limiter)

	_, err := limited.Generate(context.Background(), nil, Settings{})
	if apperrors.CodeOf(err) != apperrors.CodeGenerationFailed {
		t.Fatalf("expected generation failure, got %v", err)
	}
	// The request reached the backend, so it counts against the window.
	if limiter.Pending() != 1 {
		t.Fatalf("expected failed call recorded, pending = %d", limiter.Pending())
	}
}

func TestLimitedAbortsBeforeBackend(t *testing.T) {
	stub := &stubGenerator{}
	limiter := ratelimit.NewGenerationLimiter(1)
	limiter.RecordRequest() // window full
	limited := NewLimited(stub, limiter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := limited.Generate(ctx, nil, Settings{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatal("expected no backend call after abort")
	}
	if limiter.Pending() != 1 {
		t.Fatalf("aborted call must not consume capacity, pending = %d", limiter.Pending())
	}
}
