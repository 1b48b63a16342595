//go:build nrf52 || nrf52840

package main

import (
	"apptimer/core"
	"machine"
)

// NRFGPIODriver implements core.GPIODriver and core.EdgeDriver on the
// nRF52 GPIO/GPIOTE peripherals
type NRFGPIODriver struct {
	// Track configured pins to prevent conflicts
	configuredPins map[core.GPIOPin]machine.PinMode
}

// NewNRFGPIODriver creates a new nRF52 GPIO driver
func NewNRFGPIODriver() *NRFGPIODriver {
	return &NRFGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.PinMode),
	}
}

func (d *NRFGPIODriver) configure(pin core.GPIOPin, mode machine.PinMode) error {
	if existing, ok := d.configuredPins[pin]; ok {
		if existing != mode {
			return core.ErrInvalidState
		}
		// Already configured, this is OK
		return nil
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: mode})
	d.configuredPins[pin] = mode
	return nil
}

// ConfigureOutput configures a pin as a digital output
func (d *NRFGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinOutput)
}

// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
func (d *NRFGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPullup)
}

// SetPin sets the pin to high (true) or low (false)
func (d *NRFGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if d.configuredPins[pin] != machine.PinOutput {
		return core.ErrInvalidState
	}
	machine.Pin(pin).Set(value)
	return nil
}

// GetPin reads the current pin state
func (d *NRFGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	if _, ok := d.configuredPins[pin]; !ok {
		return false, core.ErrInvalidState
	}
	return machine.Pin(pin).Get(), nil
}

// SetFallingEdgeHandler attaches a GPIOTE channel to pin (HITOLO)
func (d *NRFGPIODriver) SetFallingEdgeHandler(pin core.GPIOPin, handler func(core.GPIOPin)) error {
	if d.configuredPins[pin] != machine.PinInputPullup {
		return core.ErrInvalidState
	}
	return machine.Pin(pin).SetInterrupt(machine.PinFalling, func(p machine.Pin) {
		handler(core.GPIOPin(p))
	})
}
