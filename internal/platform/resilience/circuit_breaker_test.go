package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, now *time.Time) *CircuitBreaker {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	})
	b.now = func() time.Time { return *now }
	return b
}

func TestCircuitBreaker_Transitions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	b := newTestBreaker(2, &now)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteIgnoresNonCountableErrors(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, &now)
	errClient := errors.New("bad request")
	errRemote := errors.New("upstream 503")
	countable := func(err error) bool { return errors.Is(err, errRemote) }

	err := b.Execute(context.Background(), func(context.Context) error { return errClient }, countable)
	if !errors.Is(err, errClient) {
		t.Fatalf("expected client error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("client errors must not trip the breaker, got %s", state)
	}

	_ = b.Execute(context.Background(), func(context.Context) error { return errRemote }, countable)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after remote failure, got %s", state)
	}

	called := false
	err = b.Execute(context.Background(), func(context.Context) error { called = true; return nil }, countable)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected short circuit, got err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), func(context.Context) error { return errors.New("x") }, nil)
	}
	if err := b.Execute(context.Background(), func(context.Context) error { return nil }, nil); err != nil {
		t.Fatalf("disabled breaker must not reject: %v", err)
	}
}
