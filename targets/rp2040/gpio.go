//go:build rp2040 || rp2350

package main

import (
	"apptimer/core"
	"machine"
)

// RPGPIODriver implements core.GPIODriver and core.EdgeDriver on SIO pins
type RPGPIODriver struct {
	// Track configured pins to prevent conflicts
	configuredPins map[core.GPIOPin]machine.PinMode
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.PinMode),
	}
}

func (d *RPGPIODriver) configure(pin core.GPIOPin, mode machine.PinMode) error {
	if pin > 29 {
		// RP2040 has GPIO0-GPIO29
		return core.ErrInvalidParam
	}
	if existing, ok := d.configuredPins[pin]; ok {
		if existing != mode {
			return core.ErrInvalidState
		}
		return nil
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: mode})
	d.configuredPins[pin] = mode
	return nil
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinOutput)
}

// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPullup)
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if mode, ok := d.configuredPins[pin]; !ok || mode != machine.PinOutput {
		return core.ErrInvalidState
	}
	machine.Pin(pin).Set(value)
	return nil
}

// GetPin reads the current pin state
func (d *RPGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	if _, ok := d.configuredPins[pin]; !ok {
		return false, core.ErrInvalidState
	}
	return machine.Pin(pin).Get(), nil
}

// SetFallingEdgeHandler enables the GPIO edge-low interrupt on pin
func (d *RPGPIODriver) SetFallingEdgeHandler(pin core.GPIOPin, handler func(core.GPIOPin)) error {
	if mode, ok := d.configuredPins[pin]; !ok || mode != machine.PinInputPullup {
		return core.ErrInvalidState
	}
	return machine.Pin(pin).SetInterrupt(machine.PinFalling, func(p machine.Pin) {
		handler(core.GPIOPin(p))
	})
}
