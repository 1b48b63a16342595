package app

import (
	"sync/atomic"

	"apptimer/core"
)

var _ Actions = (*Controller)(nil)

// Default timing, in milliseconds
const (
	DefaultRepeatPeriodMS   = 200
	DefaultEscalationStepMS = 1000
)

// TimerService is the part of core.TimerService the controller drives
type TimerService interface {
	Create(mode core.TimerMode, handler core.ExpiryHandler) (core.TimerID, error)
	Start(id core.TimerID, ticks uint32) error
	Stop(id core.TimerID) error
}

// OutputPort is the part of core.OutputPort the controller drives
type OutputPort interface {
	Set(line core.LineID) error
	Clear(line core.LineID) error
	Toggle(line core.LineID) error
}

// ControllerConfig tunes a Controller. Zero fields take defaults.
type ControllerConfig struct {
	RepeatPeriodMS   uint32
	EscalationStepMS uint32

	// Ticks converts milliseconds to timer ticks (default core.TicksFromMS)
	Ticks func(ms uint32) (uint32, bool)

	// Check receives errors raised inside expiry handlers (default core.ErrorCheck)
	Check func(error)
}

func (c *ControllerConfig) applyDefaults() {
	if c.RepeatPeriodMS == 0 {
		c.RepeatPeriodMS = DefaultRepeatPeriodMS
	}
	if c.EscalationStepMS == 0 {
		c.EscalationStepMS = DefaultEscalationStepMS
	}
	if c.Ticks == nil {
		c.Ticks = core.TicksFromMS
	}
	if c.Check == nil {
		c.Check = core.ErrorCheck
	}
}

// Controller owns the repeating timer A, the single-shot timer B and the
// escalating timeout. Actions run in interrupt (or deferred) context, expiry
// handlers in timer context; the timeout is the only state both touch.
type Controller struct {
	timers TimerService
	out    OutputPort
	cfg    ControllerConfig

	timerA core.TimerID
	timerB core.TimerID

	// Grows by EscalationStepMS per StartEscalatingOneShot, never reset.
	// Wraps at 2^32 ms; the tick conversion rejects values long before that.
	escalatingTimeout atomic.Uint32
}

// NewController creates timers A (repeating) and B (single-shot)
func NewController(timers TimerService, out OutputPort, cfg ControllerConfig) (*Controller, error) {
	cfg.applyDefaults()
	c := &Controller{
		timers: timers,
		out:    out,
		cfg:    cfg,
	}

	var err error
	if c.timerA, err = timers.Create(core.ModeRepeating, c.onExpire); err != nil {
		return nil, err
	}
	if c.timerB, err = timers.Create(core.ModeSingleShot, c.onExpire); err != nil {
		return nil, err
	}
	return c, nil
}

// TimerA returns the repeating timer's id
func (c *Controller) TimerA() core.TimerID { return c.timerA }

// TimerB returns the single-shot timer's id
func (c *Controller) TimerB() core.TimerID { return c.timerB }

// EscalatingTimeout returns the current single-shot timeout in milliseconds
func (c *Controller) EscalatingTimeout() uint32 {
	return c.escalatingTimeout.Load()
}

// StartRepeating (re)starts timer A with the repeat period
func (c *Controller) StartRepeating() error {
	ticks, ok := c.cfg.Ticks(c.cfg.RepeatPeriodMS)
	if !ok {
		return &core.TimerServiceError{Op: "start", Timer: c.timerA, Err: core.ErrInvalidParam}
	}
	return c.timers.Start(c.timerA, ticks)
}

// StopRepeating stops timer A. Stopping an idle timer succeeds.
func (c *Controller) StopRepeating() error {
	return c.timers.Stop(c.timerA)
}

// StartEscalatingOneShot grows the timeout by one step and (re)starts timer B
// with it, superseding any pending expiry.
func (c *Controller) StartEscalatingOneShot() error {
	timeout := c.escalatingTimeout.Add(c.cfg.EscalationStepMS)
	ticks, ok := c.cfg.Ticks(timeout)
	if !ok {
		return &core.TimerServiceError{Op: "start", Timer: c.timerB, Err: core.ErrInvalidParam}
	}
	return c.timers.Start(c.timerB, ticks)
}

// SetOutputDirect sets output line 2 (LED off), regardless of timer state
func (c *Controller) SetOutputDirect() error {
	return c.out.Set(core.Line2)
}

// onExpire is the single expiry entry point for both timers
func (c *Controller) onExpire(id core.TimerID) {
	switch id {
	case c.timerA:
		c.cfg.Check(c.out.Toggle(core.Line1))
	case c.timerB:
		c.cfg.Check(c.out.Clear(core.Line2))
	}
}
