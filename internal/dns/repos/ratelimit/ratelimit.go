// Package ratelimit provides a per-client token-bucket limiter. Buckets
// live in an LRU cache so the per-client state stays bounded no matter how
// many sources query; evicting a stale bucket just grants that client a
// fresh burst, which is acceptable for a cost guard.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/promptdns/promptdns/internal/dns/common/clock"
)

// DefaultCacheSize bounds how many distinct clients hold a live bucket.
const DefaultCacheSize = 4096

// Limiter enforces a per-client query rate before the resolver does any
// other work. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets *lru.Cache[string, *bucket]
	rate    float64 // tokens refilled per second
	burst   float64
	clock   clock.Clock
}

type bucket struct {
	tokens float64
	last   time.Time
}

// New creates a Limiter allowing ratePerSec queries per second per client
// with the given burst. A burst below one defaults to ratePerSec. Size
// bounds the number of tracked clients; values below one use
// DefaultCacheSize.
func New(ratePerSec, burst, size int, clk clock.Clock) (*Limiter, error) {
	if ratePerSec < 1 {
		return nil, fmt.Errorf("rate must be at least 1 query per second, got %d", ratePerSec)
	}
	if burst < 1 {
		burst = ratePerSec
	}
	if size < 1 {
		size = DefaultCacheSize
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	buckets, err := lru.New[string, *bucket](size)
	if err != nil {
		return nil, err
	}
	return &Limiter{
		buckets: buckets,
		rate:    float64(ratePerSec),
		burst:   float64(burst),
		clock:   clk,
	}, nil
}

// Allow reports whether the client may issue another query now, consuming
// one token if so. New (or evicted) clients start with a full burst.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	b, ok := l.buckets.Get(client)
	if !ok {
		b = &bucket{tokens: l.burst, last: now}
		l.buckets.Add(client, b)
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * l.rate
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Len returns the number of clients currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buckets.Len()
}
