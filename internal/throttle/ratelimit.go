package throttle

import (
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// RateLimiter caps admitted commands per identity within a fixed window. The
// counter resets wholesale when the window elapses rather than sliding,
// trading minor burstiness at window boundaries for O(1) bookkeeping.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*window
	window  time.Duration
	ceiling int
	now     func() time.Time
}

// NewRateLimiter returns a limiter admitting up to ceiling commands per
// identity within each window.
func NewRateLimiter(windowLen time.Duration, ceiling int) *RateLimiter {
	if windowLen <= 0 {
		windowLen = time.Minute
	}
	if ceiling < 1 {
		ceiling = 1
	}
	return &RateLimiter{
		buckets: make(map[string]*window),
		window:  windowLen,
		ceiling: ceiling,
		now:     time.Now,
	}
}

// Check admits or rejects an invocation by id. On rejection it reports how
// long until the window rolls over.
func (r *RateLimiter) Check(id string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[id]
	if !ok || now.Sub(b.start) >= r.window {
		r.buckets[id] = &window{count: 1, start: now}
		return true, 0
	}
	if b.count >= r.ceiling {
		return false, r.window - now.Sub(b.start)
	}
	b.count++
	return true, 0
}

// Sweep drops windows that have already elapsed and returns how many were
// removed.
func (r *RateLimiter) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, b := range r.buckets {
		if now.Sub(b.start) >= r.window {
			delete(r.buckets, id)
			removed++
		}
	}
	return removed
}
