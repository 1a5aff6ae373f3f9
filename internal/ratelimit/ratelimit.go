package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/resumetailor/internal/ai"
)

// Limiter enforces a minimum delay between requests sharing the same key
// (one key per completion backend).
type Limiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time
	minDelay time.Duration
}

// NewLimiter creates a limiter that enforces minDelay between consecutive
// requests with the same key.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request for key.
// Returns an error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	l.mu.Lock()
	last, ok := l.lastCall[key]
	now := time.Now()

	if !ok || now.Sub(last) >= l.minDelay {
		l.lastCall[key] = now
		l.mu.Unlock()
		return nil
	}

	// Reserve the next slot before releasing the lock so concurrent callers
	// queue behind each other instead of firing together.
	next := last.Add(l.minDelay)
	l.lastCall[key] = next
	l.mu.Unlock()

	select {
	case <-ctx.Done():
		// Give the slot back unless a later caller already queued behind it.
		l.mu.Lock()
		if l.lastCall[key].Equal(next) {
			l.lastCall[key] = last
		}
		l.mu.Unlock()
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-time.After(time.Until(next)):
	}

	return nil
}

// Provider is a decorator that waits on a shared Limiter before delegating
// to the wrapped provider.
type Provider struct {
	inner   ai.Provider
	limiter *Limiter
	key     string
}

// NewProvider wraps an ai.Provider with rate limiting under key.
func NewProvider(inner ai.Provider, limiter *Limiter, key string) *Provider {
	return &Provider{
		inner:   inner,
		limiter: limiter,
		key:     key,
	}
}

// Complete waits for the limiter, then delegates.
func (p *Provider) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	if err := p.limiter.Wait(ctx, p.key); err != nil {
		return "", err
	}
	return p.inner.Complete(ctx, req)
}
