//go:build rp2040 || rp2350

package main

import (
	"apptimer/app"
	"apptimer/core"
	"apptimer/protocol"
	"machine"
	"time"
)

var (
	// GPIO interrupts on the RP2040 run with the SIO IRQ masked, so button
	// actions are handed to the main loop through the event queue
	deferredDispatch = true

	trace *protocol.TraceEmitter
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// Until the output port is up, signal faults on the onboard LED
	core.SetFaultHandler(func(err error) {
		core.DumpTimingRing()
		led := machine.LED
		led.Configure(machine.PinConfig{Mode: machine.PinOutput})
		for {
			led.Set(!led.Get())
			spinMS(100)
		}
	})

	core.SetDebugWriter(func(s string) {
		machine.Serial.Write([]byte(s))
		machine.Serial.Write([]byte("\r\n"))
	})
	trace = protocol.NewTraceEmitter(machine.Serial)

	InitClock()

	board, pollBoard := newBoard()
	board.Deferred = deferredDispatch

	sys, err := app.Start(board)
	core.ErrorCheck(err)
	core.SetFaultHandler(core.FaultLoop(sys.Outputs, core.Line4, spinMS))

	for {
		UpdateSystemTime()
		pollBoard()
		sys.Poll()
		_ = trace.Flush()

		time.Sleep(time.Millisecond)
	}
}

// wrapInit tags a board bring-up failure with the peripheral it came from
func wrapInit(peripheral string, pin core.GPIOPin, err error) error {
	if err == nil {
		return nil
	}
	return &core.PeripheralInitError{Peripheral: peripheral, Pin: pin, Err: err}
}
