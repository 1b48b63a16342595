//go:build (rp2040 || rp2350) && expander

package main

import (
	"apptimer/core"
	"machine"
	"sync/atomic"

	"tinygo.org/x/drivers/pcf8574"
)

const expanderPins = 8

// ExpanderGPIO implements core.GPIODriver and core.EdgeDriver on a PCF8574.
// The chip has no per-pin interrupts: its INT line only says "something
// changed", so edges are found by comparing snapshots in Poll.
type ExpanderGPIO struct {
	dev     *pcf8574.Device
	intPin  machine.Pin
	pending atomic.Bool

	outputs  uint8 // Pins configured as outputs
	inputs   uint8 // Pins configured as inputs
	last     uint8 // Input levels at the previous Poll
	handlers [expanderPins]func(core.GPIOPin)
}

// NewExpanderGPIO creates a driver for the expander on bus
func NewExpanderGPIO(bus *machine.I2C, intPin machine.Pin) *ExpanderGPIO {
	return &ExpanderGPIO{
		dev:    pcf8574.New(bus),
		intPin: intPin,
	}
}

// Init configures the chip and arms the INT line
func (e *ExpanderGPIO) Init() error {
	e.dev.Configure(pcf8574.Config{})

	if e.intPin == machine.NoPin {
		return nil
	}
	e.intPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return e.intPin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		e.pending.Store(true)
	})
}

func expanderBit(pin core.GPIOPin) (uint8, error) {
	if pin >= expanderPins {
		return 0, core.ErrInvalidParam
	}
	return 1 << uint8(pin), nil
}

// ConfigureOutput configures a pin as a digital output
func (e *ExpanderGPIO) ConfigureOutput(pin core.GPIOPin) error {
	bit, err := expanderBit(pin)
	if err != nil {
		return err
	}
	if e.inputs&bit != 0 {
		return core.ErrInvalidState
	}
	e.outputs |= bit
	return nil
}

// ConfigureInputPullUp releases a pin high so the weak pull-up holds it
func (e *ExpanderGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	bit, err := expanderBit(pin)
	if err != nil {
		return err
	}
	if e.outputs&bit != 0 {
		return core.ErrInvalidState
	}
	if err := e.dev.SetPin(uint8(pin), true); err != nil {
		return err
	}
	e.inputs |= bit
	e.last |= bit
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (e *ExpanderGPIO) SetPin(pin core.GPIOPin, value bool) error {
	bit, err := expanderBit(pin)
	if err != nil {
		return err
	}
	if e.outputs&bit == 0 {
		return core.ErrInvalidState
	}
	return e.dev.SetPin(uint8(pin), value)
}

// GetPin reads the current pin state
func (e *ExpanderGPIO) GetPin(pin core.GPIOPin) (bool, error) {
	if _, err := expanderBit(pin); err != nil {
		return false, err
	}
	s, err := e.dev.Read()
	if err != nil {
		return false, err
	}
	return s.Pin(uint8(pin)), nil
}

// SetFallingEdgeHandler registers handler for an input pin
func (e *ExpanderGPIO) SetFallingEdgeHandler(pin core.GPIOPin, handler func(core.GPIOPin)) error {
	bit, err := expanderBit(pin)
	if err != nil {
		return err
	}
	if e.inputs&bit == 0 {
		return core.ErrInvalidState
	}
	e.handlers[pin] = handler
	return nil
}

// Poll reads the inputs after an INT edge (or every call without an INT
// line) and delivers a falling edge for each input that went low
func (e *ExpanderGPIO) Poll() {
	if e.intPin != machine.NoPin && !e.pending.Swap(false) {
		return
	}
	s, err := e.dev.Read()
	if err != nil {
		core.ErrorCheck(&core.PeripheralInitError{Peripheral: "expander", Pin: core.GPIOPin(e.intPin), Err: err})
		return
	}

	var now uint8
	for i := uint8(0); i < expanderPins; i++ {
		if s.Pin(i) {
			now |= 1 << i
		}
	}
	fell := e.last &^ now & e.inputs
	e.last = now & e.inputs

	for i := uint8(0); i < expanderPins; i++ {
		if fell&(1<<i) != 0 && e.handlers[i] != nil {
			e.handlers[i](core.GPIOPin(i))
		}
	}
}
