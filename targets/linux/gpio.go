//go:build linux && !tinygo

package main

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"apptimer/core"
)

var errNoSuchPin = errors.New("no such GPIO")

// edgePollTimeout bounds WaitForEdge so watchers notice shutdown
const edgePollTimeout = 100 * time.Millisecond

// PeriphGPIO implements core.GPIODriver and core.EdgeDriver on periph.io.
// Each armed input gets a watcher goroutine blocked in WaitForEdge; those
// goroutines are this target's interrupt context.
type PeriphGPIO struct {
	ctx      context.Context
	debounce time.Duration

	pins     *xsync.MapOf[core.GPIOPin, gpio.PinIO]
	watchers *xsync.MapOf[core.GPIOPin, context.CancelFunc]
	wg       sync.WaitGroup
}

// NewPeriphGPIO creates the driver. Watchers stop when ctx is done.
func NewPeriphGPIO(ctx context.Context, debounce time.Duration) *PeriphGPIO {
	return &PeriphGPIO{
		ctx:      ctx,
		debounce: debounce,
		pins:     xsync.NewMapOf[core.GPIOPin, gpio.PinIO](),
		watchers: xsync.NewMapOf[core.GPIOPin, context.CancelFunc](),
	}
}

func (d *PeriphGPIO) lookup(pin core.GPIOPin) (gpio.PinIO, error) {
	if p, ok := d.pins.Load(pin); ok {
		return p, nil
	}
	p := gpioreg.ByName("GPIO" + strconv.Itoa(int(pin)))
	if p == nil {
		return nil, errNoSuchPin
	}
	actual, _ := d.pins.LoadOrStore(pin, p)
	return actual, nil
}

// ConfigureOutput configures a pin as a digital output, initially high
func (d *PeriphGPIO) ConfigureOutput(pin core.GPIOPin) error {
	p, err := d.lookup(pin)
	if err != nil {
		return err
	}
	return p.Out(gpio.High)
}

// ConfigureInputPullUp configures a pin as an input with pull-up, no edges yet
func (d *PeriphGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	p, err := d.lookup(pin)
	if err != nil {
		return err
	}
	return p.In(gpio.PullUp, gpio.NoEdge)
}

// SetPin sets the pin to high (true) or low (false)
func (d *PeriphGPIO) SetPin(pin core.GPIOPin, value bool) error {
	p, err := d.lookup(pin)
	if err != nil {
		return err
	}
	return p.Out(gpio.Level(value))
}

// GetPin reads the current pin state
func (d *PeriphGPIO) GetPin(pin core.GPIOPin) (bool, error) {
	p, err := d.lookup(pin)
	if err != nil {
		return false, err
	}
	return p.Read() == gpio.High, nil
}

// SetFallingEdgeHandler enables falling-edge detection on pin and starts a
// watcher that calls handler once per debounced press
func (d *PeriphGPIO) SetFallingEdgeHandler(pin core.GPIOPin, handler func(core.GPIOPin)) error {
	p, err := d.lookup(pin)
	if err != nil {
		return err
	}
	if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(d.ctx)
	if old, loaded := d.watchers.LoadAndStore(pin, cancel); loaded {
		old()
	}

	d.wg.Add(1)
	go d.watch(ctx, pin, p, handler)
	return nil
}

func (d *PeriphGPIO) watch(ctx context.Context, pin core.GPIOPin, p gpio.PinIO, handler func(core.GPIOPin)) {
	defer d.wg.Done()
	for ctx.Err() == nil {
		if !p.WaitForEdge(edgePollTimeout) {
			continue
		}
		if p.Read() != gpio.Low {
			// Bounce on release
			continue
		}
		handler(pin)

		// Let the contact settle, then drop edges queued meanwhile
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.debounce):
		}
		for p.WaitForEdge(0) {
		}
	}
}

// Close stops the watchers and releases the pins
func (d *PeriphGPIO) Close() error {
	d.watchers.Range(func(pin core.GPIOPin, cancel context.CancelFunc) bool {
		cancel()
		return true
	})
	d.wg.Wait()

	var errs []error
	d.pins.Range(func(pin core.GPIOPin, p gpio.PinIO) bool {
		if err := p.Halt(); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}
