package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket implements a token bucket rate limiter.
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a full bucket holding at most maxTokens and
// gaining refillRate tokens per second.
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// refill adds tokens based on elapsed time since last refill. Caller holds mu.
func (b *TokenBucket) refill() {
	now := b.now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now
}

// TryConsume attempts to consume the specified number of tokens.
// Returns true if successful, false if not enough tokens available.
func (b *TokenBucket) TryConsume(tokens float64) bool {
	_, ok := b.reserve(tokens)
	return ok
}

// reserve consumes tokens if available; otherwise it reports how long the
// caller should wait before trying again.
func (b *TokenBucket) reserve(tokens float64) (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()

	if b.tokens >= tokens {
		b.tokens -= tokens
		return 0, true
	}

	if b.refillRate <= 0 {
		return time.Second, false
	}
	deficit := tokens - b.tokens
	return time.Duration(deficit / b.refillRate * float64(time.Second)), false
}

// Wait blocks until tokens are consumed or ctx is done.
func (b *TokenBucket) Wait(ctx context.Context, tokens float64) error {
	for {
		wait, ok := b.reserve(tokens)
		if ok {
			return nil
		}
		if wait < 10*time.Millisecond {
			wait = 10 * time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Available returns the current number of available tokens.
func (b *TokenBucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return b.tokens
}

// Return gives tokens back, e.g. when a request failed before reaching the server.
func (b *TokenBucket) Return(tokens float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += tokens
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
}
