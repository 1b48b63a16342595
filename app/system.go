package app

import "apptimer/core"

// Board describes the pins and drivers of one target
type Board struct {
	Outputs [core.NumLines]core.GPIOPin // LED1..LED4
	Inputs  [core.NumLines]core.GPIOPin // BUTTON1..BUTTON4

	OutputGPIO core.GPIODriver
	InputGPIO  core.GPIODriver
	Edges      core.EdgeDriver

	// Deferred routes button events through an EventQueue drained by Poll
	Deferred  bool
	QueueSize int

	Controller ControllerConfig
}

// System is the wired application: ports, timer service, controller, router
type System struct {
	Timers     *core.TimerService
	Outputs    *core.OutputPort
	Inputs     *core.InputPort
	Controller *Controller
	Router     *Router
	Queue      *core.EventQueue // nil unless Board.Deferred
}

// Start brings the board up in the order the firmware always has: outputs
// (all LEDs off), timer service, timers, then button interrupts. Errors are
// fatal; callers pass them to core.ErrorCheck.
func Start(b Board) (*System, error) {
	s := &System{
		Timers:  core.NewTimerService(),
		Outputs: core.NewOutputPort(b.OutputGPIO, b.Outputs),
		Inputs:  core.NewInputPort(b.InputGPIO, b.Edges, b.Inputs),
	}

	if err := s.Outputs.Init(); err != nil {
		return nil, err
	}

	core.TimerInit()
	if err := s.Timers.Init(); err != nil {
		return nil, err
	}

	ctrl, err := NewController(s.Timers, s.Outputs, b.Controller)
	if err != nil {
		return nil, err
	}
	s.Controller = ctrl

	var opts []RouterOption
	if b.Controller.Check != nil {
		opts = append(opts, WithErrorCheck(b.Controller.Check))
	}
	if b.Deferred {
		s.Queue = core.NewEventQueue(b.QueueSize)
		opts = append(opts, WithDeferrer(s.Queue))
	}
	s.Router = NewRouter(ctrl, opts...)

	if err := s.Inputs.Init(s.Router.Route); err != nil {
		return nil, err
	}
	return s, nil
}

// Poll is one main loop pass: deliver due timer expiries, then run deferred
// button events. It returns the amount of work done.
func (s *System) Poll() int {
	n := s.Timers.Dispatch()
	if s.Queue != nil {
		n += s.Queue.Execute(s.Router.Execute)
	}
	return n
}

// Shutdown stops all timers and turns every LED off
func (s *System) Shutdown() error {
	s.Timers.StopAll()
	for line := core.Line1; line <= core.Line4; line++ {
		if err := s.Outputs.Set(line); err != nil {
			return err
		}
	}
	return nil
}
