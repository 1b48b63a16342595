//go:build nrf52 || nrf52840

package main

import (
	"apptimer/core"
	"device/nrf"
	"time"
)

var bootInstant time.Time

// InitClock starts the tick clock. TinyGo already runs the LFCLK and RTC
// that back time.Now, so there is no oscillator request to make here.
func InitClock() {
	core.SetTimerFreq(core.DefaultTimerFreq)
	bootInstant = time.Now()
	UpdateSystemTime()
}

// UpdateSystemTime copies the RTC-derived time into the core tick counter
func UpdateSystemTime() {
	elapsed := time.Since(bootInstant)
	secs := uint64(elapsed / time.Second)
	frac := uint64(elapsed % time.Second)
	core.SetTime(uint32(secs*core.DefaultTimerFreq + frac*core.DefaultTimerFreq/uint64(time.Second)))
}

// spinMS busy-waits on the RTC1 counter. It does not need the scheduler, so
// fault handlers running in GPIOTE interrupt context can use it.
func spinMS(ms uint32) {
	ticks := uint32(uint64(ms) * core.DefaultTimerFreq / 1000)
	start := nrf.RTC1.COUNTER.Get()
	for (nrf.RTC1.COUNTER.Get()-start)&0xFFFFFF < ticks {
	}
}
