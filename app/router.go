package app

import "apptimer/core"

// Actions are the four operations an input line can trigger
type Actions interface {
	StartRepeating() error
	StopRepeating() error
	StartEscalatingOneShot() error
	SetOutputDirect() error
}

// Deferrer queues a line event for later execution
type Deferrer interface {
	Put(line core.LineID) error
}

// Router maps input lines to controller actions. It holds no state of its
// own; with a Deferrer it only queues, and the main loop calls Execute.
type Router struct {
	actions  Actions
	deferrer Deferrer
	check    func(error)
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithDeferrer moves dispatch off interrupt context onto d
func WithDeferrer(d Deferrer) RouterOption {
	return func(r *Router) {
		r.deferrer = d
	}
}

// WithErrorCheck replaces core.ErrorCheck as the sink for action errors
func WithErrorCheck(check func(error)) RouterOption {
	return func(r *Router) {
		r.check = check
	}
}

// NewRouter creates a router dispatching to actions
func NewRouter(actions Actions, opts ...RouterOption) *Router {
	r := &Router{
		actions: actions,
		check:   core.ErrorCheck,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route handles an input event. Lines without an action are ignored.
func (r *Router) Route(line core.LineID) {
	if !line.Valid() {
		core.RecordTiming(core.EvtUnrecognized, uint8(line), core.GetTime(), 0, 0)
		return
	}
	if r.deferrer != nil {
		r.check(r.deferrer.Put(line))
		return
	}
	r.Execute(line)
}

// Execute runs the action bound to line
func (r *Router) Execute(line core.LineID) {
	var err error
	switch line {
	case core.Line1:
		err = r.actions.StartRepeating()
	case core.Line2:
		err = r.actions.StopRepeating()
	case core.Line3:
		err = r.actions.StartEscalatingOneShot()
	case core.Line4:
		err = r.actions.SetOutputDirect()
	default:
		core.RecordTiming(core.EvtUnrecognized, uint8(line), core.GetTime(), 0, 0)
		return
	}
	core.RecordTiming(core.EvtButton, uint8(line), core.GetTime(), 0, 0)
	r.check(err)
}
