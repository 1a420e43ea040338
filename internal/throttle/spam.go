package throttle

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type spamEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// SpamGuard catches rapid-fire raw messages. Unlike the command rate limiter
// it runs on every inbound message, not only dispatched commands, and uses a
// token bucket per identity so short bursts are tolerated.
type SpamGuard struct {
	mu      sync.Mutex
	entries map[string]*spamEntry
	limit   rate.Limit
	burst   int
}

// Idle entries older than this are swept.
const spamIdleTTL = 5 * time.Minute

// NewSpamGuard returns a guard refilling at perSecond tokens with the given
// burst size.
func NewSpamGuard(perSecond float64, burst int) *SpamGuard {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &SpamGuard{
		entries: make(map[string]*spamEntry),
		limit:   rate.Limit(perSecond),
		burst:   burst,
	}
}

// Check admits or rejects a message from id stamped at. On rejection it
// reports how long the sender should wait.
func (g *SpamGuard) Check(id string, at time.Time) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[id]
	if !ok {
		e = &spamEntry{lim: rate.NewLimiter(g.limit, g.burst)}
		g.entries[id] = e
	}
	e.seen = at

	rsv := e.lim.ReserveN(at, 1)
	if !rsv.OK() {
		return true, 0 // cannot ever satisfy: fail open
	}
	if wait := rsv.DelayFrom(at); wait > 0 {
		rsv.CancelAt(at)
		return false, wait
	}
	return true, 0
}

// Sweep drops identities idle longer than the TTL and returns how many were
// removed.
func (g *SpamGuard) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := time.Now().Add(-spamIdleTTL)
	removed := 0
	for id, e := range g.entries {
		if e.seen.Before(cutoff) {
			delete(g.entries, id)
			removed++
		}
	}
	return removed
}
