// Package ratelimiter implements a per-identity token bucket.
package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter hands out tokens per identity (client IP, user id, ...).
// Buckets idle longer than expiration are dropped on the next sweep.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	rate       float64 // tokens per second
	capacity   float64
	expiration time.Duration
	lastSweep  time.Time
}

func New(rate, capacity float64, expiration time.Duration) *Limiter {
	return &Limiter{
		buckets:    make(map[string]*bucket),
		rate:       rate,
		capacity:   capacity,
		expiration: expiration,
		lastSweep:  time.Now(),
	}
}

// OncePerSecond is the login-endpoint default.
func OncePerSecond() *Limiter {
	return New(1, 1, time.Hour)
}

// Allow reports whether the identity may proceed and consumes a token if so.
func (l *Limiter) Allow(identity string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[identity]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[identity] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(l.capacity, b.tokens+elapsed*l.rate)
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets that have been idle past the expiration window.
// Runs at most once per expiration interval, under the caller's lock.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.expiration {
		return
	}
	for identity, b := range l.buckets {
		if now.Sub(b.lastRefill) >= l.expiration {
			delete(l.buckets, identity)
		}
	}
	l.lastSweep = now
}
