// Package sim provides a simulated GPIO bank: pins held in memory with
// falling-edge delivery, for the interactive simulator and end-to-end tests.
package sim

import (
	"errors"

	"github.com/puzpuzpuz/xsync/v3"

	"apptimer/core"
)

var (
	ErrUnknownPin    = errors.New("pin not configured")
	ErrNotAnInput    = errors.New("pin is not an input")
	ErrNotAnOutput   = errors.New("pin is not an output")
	ErrPinInUse      = errors.New("pin already configured with another direction")
	ErrInjectedFault = errors.New("injected fault")
)

type pinMode uint8

const (
	modeOutput pinMode = iota + 1
	modeInput
)

type pinState struct {
	mode  pinMode
	level bool
}

// GPIO is an in-memory core.GPIODriver and core.EdgeDriver
type GPIO struct {
	pins     *xsync.MapOf[core.GPIOPin, pinState]
	handlers *xsync.MapOf[core.GPIOPin, func(core.GPIOPin)]
	failing  *xsync.MapOf[core.GPIOPin, struct{}]
	writes   *xsync.Counter
}

// NewGPIO creates a simulated GPIO bank with no pins configured
func NewGPIO() *GPIO {
	return &GPIO{
		pins:     xsync.NewMapOf[core.GPIOPin, pinState](),
		handlers: xsync.NewMapOf[core.GPIOPin, func(core.GPIOPin)](),
		failing:  xsync.NewMapOf[core.GPIOPin, struct{}](),
		writes:   xsync.NewCounter(),
	}
}

// FailPin makes every later operation on pin return ErrInjectedFault
func (g *GPIO) FailPin(pin core.GPIOPin) {
	g.failing.Store(pin, struct{}{})
}

func (g *GPIO) configure(pin core.GPIOPin, mode pinMode, level bool) error {
	if _, bad := g.failing.Load(pin); bad {
		return ErrInjectedFault
	}
	var err error
	g.pins.Compute(pin, func(old pinState, loaded bool) (pinState, bool) {
		if loaded && old.mode != mode {
			err = ErrPinInUse
			return old, false
		}
		if loaded {
			return old, false
		}
		return pinState{mode: mode, level: level}, false
	})
	return err
}

// ConfigureOutput configures a pin as a digital output, initially low
func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	return g.configure(pin, modeOutput, false)
}

// ConfigureInputPullUp configures a pin as an input idling high
func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	return g.configure(pin, modeInput, true)
}

// SetPin drives an output pin
func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	if _, bad := g.failing.Load(pin); bad {
		return ErrInjectedFault
	}
	var err error
	g.pins.Compute(pin, func(old pinState, loaded bool) (pinState, bool) {
		switch {
		case !loaded:
			err = ErrUnknownPin
			return old, true
		case old.mode != modeOutput:
			err = ErrNotAnOutput
			return old, false
		}
		old.level = value
		return old, false
	})
	if err == nil {
		g.writes.Inc()
	}
	return err
}

// GetPin reads a pin level
func (g *GPIO) GetPin(pin core.GPIOPin) (bool, error) {
	st, ok := g.pins.Load(pin)
	if !ok {
		return false, ErrUnknownPin
	}
	return st.level, nil
}

// Level reads a pin level, treating unknown pins as low
func (g *GPIO) Level(pin core.GPIOPin) bool {
	st, _ := g.pins.Load(pin)
	return st.level
}

// Writes returns the number of successful SetPin calls
func (g *GPIO) Writes() int64 {
	return g.writes.Value()
}

// SetFallingEdgeHandler registers handler for high-to-low transitions
func (g *GPIO) SetFallingEdgeHandler(pin core.GPIOPin, handler func(core.GPIOPin)) error {
	st, ok := g.pins.Load(pin)
	if !ok {
		return ErrUnknownPin
	}
	if st.mode != modeInput {
		return ErrNotAnInput
	}
	g.handlers.Store(pin, handler)
	return nil
}

// Press pulls an input pin low and releases it again, as a debounced button
// would. The edge handler runs on the caller's goroutine.
func (g *GPIO) Press(pin core.GPIOPin) error {
	var fell bool
	var err error
	g.pins.Compute(pin, func(old pinState, loaded bool) (pinState, bool) {
		switch {
		case !loaded:
			err = ErrUnknownPin
			return old, true
		case old.mode != modeInput:
			err = ErrNotAnInput
			return old, false
		}
		fell = old.level
		old.level = false
		return old, false
	})
	if err != nil {
		return err
	}

	if fell {
		if handler, ok := g.handlers.Load(pin); ok {
			handler(pin)
		}
	}

	g.pins.Compute(pin, func(old pinState, loaded bool) (pinState, bool) {
		old.level = true
		return old, false
	})
	return nil
}
