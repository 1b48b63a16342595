//go:build (rp2040 || rp2350) && !expander

package main

import (
	"apptimer/app"
	"apptimer/core"
	"apptimer/targets/pio"
	"machine"
)

// Pico wiring: buttons to ground on GP10-GP13, LEDs from 3V3 into GP2-GP5
// driven by PIO0 state machine 0
const (
	ledBasePin    = machine.GPIO2
	buttonBasePin = machine.GPIO10
)

// newBoard wires SIO buttons and the PIO LED bank. The returned poll
// function has nothing to do: button edges arrive by interrupt.
func newBoard() (app.Board, func()) {
	bank := pio.NewLEDBank(0, 0)
	core.ErrorCheck(wrapInit("pio", core.GPIOPin(ledBasePin), bank.Init(ledBasePin)))

	buttons := NewRPGPIODriver()
	b := app.Board{
		OutputGPIO: bank,
		InputGPIO:  buttons,
		Edges:      buttons,
	}
	for i := 0; i < core.NumLines; i++ {
		b.Outputs[i] = core.GPIOPin(ledBasePin) + core.GPIOPin(i)
		b.Inputs[i] = core.GPIOPin(buttonBasePin) + core.GPIOPin(i)
	}
	return b, func() {}
}
