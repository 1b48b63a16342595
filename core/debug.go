package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a button, timer or output event for post-mortem
// analysis and for the trace link.
type TimingEvent struct {
	Seq       uint32 // Position in the overall event stream
	EventType uint8  // Event type code
	OID       uint8  // Line or timer id
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtButton       = 1 // Input line event routed (OID=line)
	EvtTimerStart   = 2 // Timer armed (OID=timer, v1=ticks, v2=mode)
	EvtTimerStop    = 3 // Running timer stopped (OID=timer)
	EvtTimerFire    = 4 // Timer expired (OID=timer, v1=wake time, v2=mode)
	EvtOutput       = 5 // Output written (OID=line, v1=level)
	EvtFault        = 6 // ErrorCheck caught a fatal error
	EvtDropped      = 7 // Event discarded (queue full or unknown pin, v1=pin)
	EvtUnrecognized = 8 // Routed line has no action (OID=line)
)

// EventName returns the short name of an event type code
func EventName(eventType uint8) string {
	switch eventType {
	case EvtButton:
		return "BUTTON"
	case EvtTimerStart:
		return "TIMER_START"
	case EvtTimerStop:
		return "TIMER_STOP"
	case EvtTimerFire:
		return "TIMER_FIRE"
	case EvtOutput:
		return "OUTPUT"
	case EvtFault:
		return "FAULT!"
	case EvtDropped:
		return "DROPPED"
	case EvtUnrecognized:
		return "UNRECOGNIZED"
	default:
		return "UNKNOWN"
	}
}

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing    [TimingRingSize]TimingEvent
	timingSeq     uint32 // Events recorded so far
	drainSeq      uint32 // Next event DrainTiming hands out
	timingEnabled bool = true
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTimingEnabled turns event capture on or off
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// RecordTiming captures an event in the ring buffer.
// Safe from interrupt context; never blocks for long.
func RecordTiming(eventType, oid uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	state := lockTrace()
	seq := timingSeq
	timingRing[seq%TimingRingSize] = TimingEvent{
		Seq:       seq,
		EventType: eventType,
		OID:       oid,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingSeq = seq + 1
	unlockTrace(state)
}

// DrainTiming hands every event recorded since the previous drain to fn,
// oldest first, and returns how many were lost to ring overwrite.
func DrainTiming(fn func(TimingEvent)) (lost uint32) {
	var batch [TimingRingSize]TimingEvent

	state := lockTrace()
	end := timingSeq
	start := drainSeq
	if end-start > TimingRingSize {
		lost = end - start - TimingRingSize
		start = end - TimingRingSize
	}
	n := 0
	for seq := start; seq != end; seq++ {
		batch[n] = timingRing[seq%TimingRingSize]
		n++
	}
	drainSeq = end
	unlockTrace(state)

	for i := 0; i < n; i++ {
		fn(batch[i])
	}
	return lost
}

// FormatTimingEvent renders an event as a single debug line
func FormatTimingEvent(evt TimingEvent) string {
	return "[TIMING] " + EventName(evt.EventType) +
		" seq=" + utoa(evt.Seq) +
		" oid=" + itoa(int(evt.OID)) +
		" clock=" + utoa(evt.Clock) +
		" v1=" + utoa(evt.Value1) +
		" v2=" + utoa(evt.Value2)
}

// DumpTimingRing outputs the timing ring buffer (call on shutdown/error)
func DumpTimingRing() {
	var batch [TimingRingSize]TimingEvent

	state := lockTrace()
	end := timingSeq
	start := uint32(0)
	if end > TimingRingSize {
		start = end - TimingRingSize
	}
	n := 0
	for seq := start; seq != end; seq++ {
		batch[n] = timingRing[seq%TimingRingSize]
		n++
	}
	unlockTrace(state)

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	debugPrintln("[TIMING] Total events recorded: " + utoa(end))
	for i := 0; i < n; i++ {
		debugPrintln(FormatTimingEvent(batch[i]))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	state := lockTrace()
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingSeq = 0
	drainSeq = 0
	unlockTrace(state)
}
