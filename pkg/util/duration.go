package util

import (
	"fmt"
	"time"
)

// HumanDuration renders a duration for chat messages: sub-minute values in
// whole seconds (rounded up, never "0s" for a live wait), longer values as
// minutes and seconds.
func HumanDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%ds", secs/60, secs%60)
}
