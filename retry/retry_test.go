package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"mediascribe/errors"
)

var errTransient = stderrors.New("transient")
var errFatal = stderrors.New("fatal")

func testPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Retryable:   func(err error) bool { return stderrors.Is(err, errTransient) },
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), testPolicy(3), "Test", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errTransient
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected ok, got %q", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), testPolicy(3), "Test", func(ctx context.Context) (string, error) {
		calls++
		return "", errTransient
	})

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
	if !errors.IsKind(err, errors.KindUpstream) {
		t.Errorf("expected upstream error, got %v", err)
	}
	if !stderrors.Is(err, errTransient) {
		t.Error("expected the last underlying error to be wrapped")
	}
}

func TestDoFatalErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), testPolicy(5), "Test", func(ctx context.Context) (int, error) {
		calls++
		return 0, errFatal
	})

	if !stderrors.Is(err, errFatal) {
		t.Fatalf("expected fatal error unchanged, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestDoNilPredicateNeverRetries(t *testing.T) {
	policy := Policy{MaxAttempts: 4, BaseDelay: time.Millisecond}
	calls := 0
	_, err := Do(context.Background(), policy, "Test", func(ctx context.Context) (int, error) {
		calls++
		return 0, errTransient
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestDoContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Minute,
		Retryable:   func(error) bool { return true },
	}

	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, policy, "Test", func(ctx context.Context) (int, error) {
			return 0, errTransient
		})
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if !stderrors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}
