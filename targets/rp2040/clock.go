//go:build rp2040 || rp2350

package main

import (
	"apptimer/core"
	"runtime/volatile"
	"unsafe"
)

// RP2040/RP2350 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
	timerFreqHz   = 1000000          // The timer counts microseconds
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// InitClock switches the core tick to the 1MHz hardware timer
func InitClock() {
	core.SetTimerFreq(timerFreqHz)
	UpdateSystemTime()
}

// GetHardwareTime reads the low 32 bits of the microsecond counter
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime updates the core timer with hardware time
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}

// spinMS busy-waits on the microsecond counter, so it also works from a
// GPIO interrupt where the scheduler cannot run
func spinMS(ms uint32) {
	start := GetHardwareTime()
	for GetHardwareTime()-start < ms*1000 {
	}
}
