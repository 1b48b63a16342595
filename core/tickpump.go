//go:build !tinygo

package core

import (
	"context"
	"time"
)

// TickSource derives system ticks from the monotonic clock on hosts that
// have no RTC peripheral
type TickSource struct {
	start time.Time
	freq  uint32
}

// NewTickSource starts counting at the configured TimerFreq
func NewTickSource() *TickSource {
	return &TickSource{start: time.Now(), freq: TimerFreq()}
}

// Ticks returns the ticks elapsed since the source started, wrapping at 2^32
func (c *TickSource) Ticks() uint32 {
	elapsed := time.Since(c.start)
	secs := uint64(elapsed / time.Second)
	frac := uint64(elapsed % time.Second)
	return uint32(secs*uint64(c.freq) + frac*uint64(c.freq)/uint64(time.Second))
}

// Run updates the system time and calls poll every interval until ctx is
// done. It stands in for the RTC interrupt plus the firmware main loop.
func (c *TickSource) Run(ctx context.Context, interval time.Duration, poll func() int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			SetTime(c.Ticks())
			poll()
		}
	}
}
