package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/resumetailor/internal/ai"
	"github.com/amishk599/resumetailor/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockProvider calls a function on each invocation, tracking call count.
type mockProvider struct {
	calls int
	fn    func(attempt int) (string, error)
}

func (m *mockProvider) Complete(_ context.Context, _ ai.CompletionRequest) (string, error) {
	m.calls++
	return m.fn(m.calls)
}

var req = ai.CompletionRequest{SystemPrompt: "sys", UserMessage: "user"}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "done", nil
	}}

	rp := NewProvider(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rp.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Fatalf("got %q, want done", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_ZeroRetriesMakesExactlyOneCall(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
	}}

	rp := NewProvider(mock, 0, 10*time.Millisecond, discardLogger())
	if _, err := rp.Complete(context.Background(), req); err == nil {
		t.Fatal("expected error, got nil")
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	mock := &mockProvider{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return "tailored resume", nil
	}}

	rp := NewProvider(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rp.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "tailored resume" {
		t.Fatalf("got %q", got)
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_RetriesOnNetworkError(t *testing.T) {
	mock := &mockProvider{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", errors.New("connection reset by peer")
		}
		return "ok", nil
	}}

	rp := NewProvider(mock, 1, 10*time.Millisecond, discardLogger())
	if _, err := rp.Complete(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOnAuthError(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 401, Err: errors.New("invalid api key")}
	}}

	rp := NewProvider(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rp.Complete(context.Background(), req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 401 {
		t.Fatalf("expected HTTPError with status 401, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOnQuotaExhausted(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{
			StatusCode: 429,
			Err:        &ai.APIError{Type: "insufficient_quota", Message: "You exceeded your current quota."},
		}
	}}

	rp := NewProvider(mock, 3, 10*time.Millisecond, discardLogger())
	if _, err := rp.Complete(context.Background(), req); err == nil {
		t.Fatal("expected error, got nil")
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry on exhausted quota), got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOnInvalidRequestBody(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &ai.APIError{Type: "invalid_request_error", Message: "model does not exist"}
	}}

	rp := NewProvider(mock, 3, 10*time.Millisecond, discardLogger())
	if _, err := rp.Complete(context.Background(), req); err == nil {
		t.Fatal("expected error, got nil")
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOnRateLimitErrorObject(t *testing.T) {
	mock := &mockProvider{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", &model.HTTPError{
				StatusCode: 429,
				Err:        &ai.APIError{Type: "rate_limit_exceeded", Message: "slow down"},
			}
		}
		return "ok", nil
	}}

	rp := NewProvider(mock, 2, time.Millisecond, discardLogger())
	got, err := rp.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || mock.calls != 2 {
		t.Fatalf("got %q after %d calls, want ok after 2", got, mock.calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	rp := NewProvider(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rp.Complete(context.Background(), req)
	if err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel immediately so the backoff sleep is interrupted.
	cancel()

	rp := NewProvider(mock, 2, time.Second, discardLogger())
	_, err := rp.Complete(ctx, req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.calls)
	}
}

func TestBackoffDelay_PrefersRetryAfter(t *testing.T) {
	rp := NewProvider(nil, 2, time.Second, discardLogger())
	err := &model.HTTPError{StatusCode: 429, RetryAfter: 42 * time.Second}

	if got := rp.backoffDelay(1, err); got != 42*time.Second {
		t.Errorf("backoffDelay = %v, want 42s", got)
	}
}

func TestBackoffDelay_DoublesWithJitter(t *testing.T) {
	rp := NewProvider(nil, 3, 100*time.Millisecond, discardLogger())

	got := rp.backoffDelay(3, errors.New("timeout"))
	// 100ms * 2^2 = 400ms, ±30%
	if got < 280*time.Millisecond || got > 520*time.Millisecond {
		t.Errorf("backoffDelay(3) = %v, want within 280ms..520ms", got)
	}
}
