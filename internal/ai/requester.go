package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// FallbackMessage is returned by RequestCompletion in place of any failure.
const FallbackMessage = "Sorry, something went wrong. Please try again."

// Requester turns a job description and a resume into generated text through
// a single provider call. It holds no mutable state and is safe for
// concurrent use.
type Requester struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewRequester creates a requester. timeout bounds each call; zero disables it.
func NewRequester(provider Provider, timeout time.Duration, logger *slog.Logger) *Requester {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Requester{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Complete issues one completion call and reports failures as errors.
func (r *Requester) Complete(ctx context.Context, jobDescription, resume string, mode Mode) (string, error) {
	req, err := BuildRequest(jobDescription, resume, mode)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := r.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	r.logger.Debug("completion received",
		"mode", mode.String(),
		"chars", len(out),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return out, nil
}

// RequestCompletion returns the generated text for the given inputs, or
// FallbackMessage if the call fails for any reason. It never returns an error
// and never panics.
func (r *Requester) RequestCompletion(ctx context.Context, jobDescription, resume string, mode Mode) string {
	out, _ := r.Generate(ctx, jobDescription, resume, mode)
	return out
}

// Generate behaves like RequestCompletion and also reports whether the
// fallback message was substituted for a failed call.
func (r *Requester) Generate(ctx context.Context, jobDescription, resume string, mode Mode) (out string, failed bool) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("completion request panicked", "mode", mode.String(), "panic", p)
			out, failed = FallbackMessage, true
		}
	}()

	out, err := r.Complete(ctx, jobDescription, resume, mode)
	if err != nil {
		r.logger.Error("completion request failed", "mode", mode.String(), "error", err)
		return FallbackMessage, true
	}
	return out, false
}
