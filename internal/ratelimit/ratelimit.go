// Package ratelimit provides a fixed-window per-address limiter, used to
// slow down passcode guessing on the login endpoint.
package ratelimit

import (
	"sync"
	"time"
)

type RateLimit interface {
	Allow(addr string) bool
}

type window struct {
	count int
	start time.Time
}

type FixedWindowLimiter struct {
	maxRequests int
	interval    time.Duration
	windows     map[string]*window
	mutex       sync.Mutex
}

func New(maxRequests int, interval time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		maxRequests: maxRequests,
		interval:    interval,
		windows:     make(map[string]*window),
	}
}

func (rl *FixedWindowLimiter) Allow(addr string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	w := rl.windows[addr]

	if w == nil || now.Sub(w.start) > rl.interval {
		if rl.maxRequests == 0 {
			return false
		}
		rl.windows[addr] = &window{count: 1, start: now}
		return true
	}

	if w.count >= rl.maxRequests {
		return false
	}
	w.count++
	return true
}
