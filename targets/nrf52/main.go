//go:build nrf52 || nrf52840

package main

import (
	"apptimer/app"
	"apptimer/core"
	"apptimer/protocol"
	"machine"
	"time"
)

// Buttons and LEDs of the nRF52 DK. The LED cathodes are on the pins, so a
// low pin lights the LED.
var board = app.Board{
	Outputs: [core.NumLines]core.GPIOPin{
		core.GPIOPin(machine.LED1),
		core.GPIOPin(machine.LED2),
		core.GPIOPin(machine.LED3),
		core.GPIOPin(machine.LED4),
	},
	Inputs: [core.NumLines]core.GPIOPin{
		core.GPIOPin(machine.BUTTON1),
		core.GPIOPin(machine.BUTTON2),
		core.GPIOPin(machine.BUTTON3),
		core.GPIOPin(machine.BUTTON4),
	},
}

var (
	// Route button events straight from the GPIOTE interrupt. Set to move
	// them onto the main loop instead.
	deferredDispatch = false

	trace *protocol.TraceEmitter
)

func main() {
	// Until the output port is up, signal faults on LED4 by hand
	core.SetFaultHandler(func(err error) {
		core.DumpTimingRing()
		led := machine.LED4
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

	gpioDriver := NewNRFGPIODriver()
	board.OutputGPIO = gpioDriver
	board.InputGPIO = gpioDriver
	board.Edges = gpioDriver
	board.Deferred = deferredDispatch

	sys, err := app.Start(board)
	core.ErrorCheck(err)
	core.SetFaultHandler(core.FaultLoop(sys.Outputs, core.Line4, spinMS))

	// Main loop - the core does its work in interrupt and timer context
	for {
		UpdateSystemTime()
		sys.Poll()
		_ = trace.Flush()

		// Stand-in for WFI between RTC ticks
		time.Sleep(time.Millisecond)
	}
}
