// Package throttle tracks per-user command admission: per-(command, identity)
// cooldowns, a fixed-window rate limiter, and a burst-spam guard for raw
// message floods. All state is process-local and in-memory; a restart resets
// everyone. None of the checks can fail — a throttling bug must degrade to
// admit, never take the bot down.
package throttle

import (
	"sync"
	"time"
)

type cooldownEntry struct {
	at time.Time
	d  time.Duration
}

// Cooldowns tracks the last accepted invocation per (command, identity) pair.
type Cooldowns struct {
	mu   sync.Mutex
	last map[string]cooldownEntry
	now  func() time.Time
}

// NewCooldowns returns an empty cooldown table.
func NewCooldowns() *Cooldowns {
	return &Cooldowns{
		last: make(map[string]cooldownEntry),
		now:  time.Now,
	}
}

// Check admits or rejects an invocation of command by id under cooldown d.
// On admit the timestamp is debited immediately, not after execution, so a
// slow command cannot be invoked twice in parallel by the same identity.
func (c *Cooldowns) Check(command, id string, d time.Duration) (bool, time.Duration) {
	if d <= 0 {
		return true, 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	key := command + "|" + id
	if e, ok := c.last[key]; ok {
		if elapsed := now.Sub(e.at); elapsed < e.d {
			return false, e.d - elapsed
		}
	}
	c.last[key] = cooldownEntry{at: now, d: d}
	return true, 0
}

// Sweep drops entries whose cooldown has fully elapsed and returns how many
// were removed. Keeps the table bounded over long uptimes.
func (c *Cooldowns) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.last {
		if now.Sub(e.at) >= e.d {
			delete(c.last, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries.
func (c *Cooldowns) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.last)
}
