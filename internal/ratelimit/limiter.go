// Package ratelimit provides the throttling gates used between outbound calls
// to third-party services.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// Gate blocks until the next call is allowed to proceed.
type Gate interface {
	Wait(ctx context.Context) error
}

// clock abstracts time for tests.
type clock struct {
	now   func() time.Time
	after func(d time.Duration) <-chan time.Time
}

var realClock = clock{now: time.Now, after: time.After}

// FixedDelay waits a constant interval on every call. This is the throttle
// between candidate enrichments: the upstream brand API enforces a rate limit
// and a fixed per-candidate delay is the agreed mechanism.
type FixedDelay struct {
	delay time.Duration
	clk   clock
}

func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay, clk: realClock}
}

func (g *FixedDelay) Wait(ctx context.Context) error {
	if g == nil || g.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.clk.after(g.delay):
		return nil
	}
}

// TokenBucket bounds sustained request rate while allowing short bursts.
type TokenBucket struct {
	mu           sync.Mutex
	capacity     float64
	tokens       float64
	refillPerSec float64
	last         time.Time
	clk          clock
}

func NewTokenBucket(rps float64) *TokenBucket {
	if rps <= 0 {
		return nil
	}
	capacity := math.Max(1, rps*2)
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPerSec: rps,
		last:         realClock.now(),
		clk:          realClock,
	}
}

// Wait takes one token, sleeping until a token is available. A nil bucket
// never blocks.
func (b *TokenBucket) Wait(ctx context.Context) error {
	if b == nil {
		return nil
	}
	for {
		b.mu.Lock()
		now := b.clk.now()
		if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
			b.tokens = math.Min(b.capacity, b.tokens+elapsed*b.refillPerSec)
			b.last = now
		}
		ok := b.tokens >= 1.0
		if ok {
			b.tokens -= 1.0
		}
		b.mu.Unlock()

		if ok {
			return nil
		}
		toNext := time.Duration((1.0 / b.refillPerSec) * float64(time.Second))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.clk.after(toNext):
		}
	}
}
