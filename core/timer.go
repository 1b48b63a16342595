package core

import "sync/atomic"

// DefaultTimerFreq is the tick rate of the application timer (RTC1 on the
// nRF52 with prescaler 0).
const DefaultTimerFreq = 32768

var (
	systemTicks atomic.Uint32
	timerFreq   uint32 = DefaultTimerFreq
	bootTime    uint32 // Tick count at TimerInit, for uptime calculation
)

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return systemTicks.Load()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	systemTicks.Store(ticks)
}

// SetTimerFreq overrides the tick rate. Targets call it before TimerInit.
func SetTimerFreq(hz uint32) {
	if hz != 0 {
		timerFreq = hz
	}
}

// TimerFreq returns the configured tick rate in Hz
func TimerFreq() uint32 {
	return timerFreq
}

// TicksFromMS converts milliseconds to timer ticks.
// ok is false when the result does not fit in 32 bits.
func TicksFromMS(ms uint32) (ticks uint32, ok bool) {
	t := uint64(ms) * uint64(timerFreq) / 1000
	if t > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(t), true
}

// TicksToMS converts timer ticks to milliseconds
func TicksToMS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000 / uint64(timerFreq))
}

// TimerInit records the boot tick count
func TimerInit() {
	bootTime = GetTime()
}

// GetUptime returns ticks elapsed since TimerInit
func GetUptime() uint32 {
	return GetTime() - bootTime
}
