package ratelimit

import (
	"context"
	"fmt"
	"sync"
)

// Limiter gates requests to the model endpoint.
type Limiter struct {
	requestBucket *TokenBucket
	enabled       bool
	mu            sync.RWMutex

	// Statistics
	totalRequests   int64
	blockedRequests int64
}

// Config holds rate limiter configuration.
type Config struct {
	Enabled           bool
	RequestsPerMinute int
	BurstSize         int
}

// DefaultConfig returns the default rate limiter configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		RequestsPerMinute: 10,
		BurstSize:         2,
	}
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(cfg Config) *Limiter {
	burst := float64(cfg.BurstSize)
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		requestBucket: NewTokenBucket(burst, float64(cfg.RequestsPerMinute)/60.0),
		enabled:       cfg.Enabled && cfg.RequestsPerMinute > 0,
	}
}

// Wait blocks until a request slot is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if !l.isEnabled() {
		return nil
	}

	l.mu.Lock()
	l.totalRequests++
	l.mu.Unlock()

	if l.requestBucket.TryConsume(1) {
		return nil
	}

	l.mu.Lock()
	l.blockedRequests++
	l.mu.Unlock()

	if err := l.requestBucket.Wait(ctx, 1); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// Release returns a request slot, for requests that never left the process.
func (l *Limiter) Release() {
	if !l.isEnabled() {
		return
	}
	l.requestBucket.Return(1)
}

// Stats holds rate limiter statistics.
type Stats struct {
	Enabled           bool
	TotalRequests     int64
	BlockedRequests   int64
	AvailableRequests float64
}

// Stats returns rate limiter statistics.
func (l *Limiter) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return Stats{
		Enabled:           l.enabled,
		TotalRequests:     l.totalRequests,
		BlockedRequests:   l.blockedRequests,
		AvailableRequests: l.requestBucket.Available(),
	}
}

func (l *Limiter) isEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}
