package core

// FaultHandler receives a fatal error. Firmware handlers never return.
type FaultHandler func(err error)

var faultHandler FaultHandler = func(err error) {
	panic(err)
}

// SetFaultHandler installs the platform fault handler
func SetFaultHandler(h FaultHandler) {
	if h != nil {
		faultHandler = h
	}
}

// ErrorCheck is the equivalent of APP_ERROR_CHECK: a nil error is a no-op,
// anything else is recorded and handed to the fault handler.
func ErrorCheck(err error) {
	if err == nil {
		return
	}
	RecordTiming(EvtFault, 0, GetTime(), 0, 0)
	DebugPrintln("[FAULT] " + err.Error())
	faultHandler(err)
}

// FaultLoop returns a handler that blinks line on out forever.
// sleep blocks for the given number of milliseconds. Faults can be raised
// from interrupt context, so sleep must not depend on the scheduler.
func FaultLoop(out *OutputPort, line LineID, sleep func(ms uint32)) FaultHandler {
	return func(err error) {
		DumpTimingRing()
		for {
			_ = out.Toggle(line)
			sleep(100)
		}
	}
}
