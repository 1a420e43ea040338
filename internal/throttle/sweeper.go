package throttle

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunSweeper clears expired throttle state on a fixed interval until ctx is
// done. Call from main as a background goroutine.
func RunSweeper(ctx context.Context, interval time.Duration, cd *Cooldowns, rl *RateLimiter, sg *SpamGuard) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			if cd != nil {
				removed += cd.Sweep()
			}
			if rl != nil {
				removed += rl.Sweep()
			}
			if sg != nil {
				removed += sg.Sweep()
			}
			if removed > 0 {
				log.Debug().Int("removed", removed).Msg("swept expired throttle entries")
			}
		}
	}
}
