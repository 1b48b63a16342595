//go:build (rp2040 || rp2350) && expander

package main

import (
	"apptimer/app"
	"apptimer/core"
	"machine"
)

// Expander wiring: a PCF8574 on I2C0 (GP4/GP5) with buttons on P0-P3 and
// LEDs on P4-P7, its INT line on GP15
const expanderIntPin = machine.GPIO15

// newBoard wires both ports through the expander. Button edges are found by
// the returned poll function, in main loop context.
func newBoard() (app.Board, func()) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 100 * machine.KHz,
	})
	core.ErrorCheck(wrapInit("i2c", 0, err))

	exp := NewExpanderGPIO(machine.I2C0, expanderIntPin)
	core.ErrorCheck(wrapInit("expander", core.GPIOPin(expanderIntPin), exp.Init()))

	b := app.Board{
		OutputGPIO: exp,
		InputGPIO:  exp,
		Edges:      exp,
	}
	for i := 0; i < core.NumLines; i++ {
		b.Inputs[i] = core.GPIOPin(i)
		b.Outputs[i] = core.GPIOPin(i + core.NumLines)
	}
	return b, exp.Poll
}
