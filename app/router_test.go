package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"apptimer/core"
)

type recordingActions struct {
	calls []string
	err   error
}

func (r *recordingActions) StartRepeating() error {
	r.calls = append(r.calls, "start-repeating")
	return r.err
}

func (r *recordingActions) StopRepeating() error {
	r.calls = append(r.calls, "stop-repeating")
	return r.err
}

func (r *recordingActions) StartEscalatingOneShot() error {
	r.calls = append(r.calls, "escalate")
	return r.err
}

func (r *recordingActions) SetOutputDirect() error {
	r.calls = append(r.calls, "set-direct")
	return r.err
}

type recordingDeferrer struct {
	lines []core.LineID
	err   error
}

func (d *recordingDeferrer) Put(line core.LineID) error {
	d.lines = append(d.lines, line)
	return d.err
}

func TestRouterMapping(t *testing.T) {
	tests := []struct {
		line core.LineID
		want string
	}{
		{core.Line1, "start-repeating"},
		{core.Line2, "stop-repeating"},
		{core.Line3, "escalate"},
		{core.Line4, "set-direct"},
	}
	for _, tt := range tests {
		actions := &recordingActions{}
		r := NewRouter(actions, WithErrorCheck(func(error) {}))
		r.Route(tt.line)
		assert.Equal(t, []string{tt.want}, actions.calls, "line %d", tt.line)
	}
}

func TestRouterUnrecognizedLine(t *testing.T) {
	core.ClearTimingRing()
	actions := &recordingActions{}
	checks := 0
	r := NewRouter(actions, WithErrorCheck(func(error) { checks++ }))

	r.Route(core.LineNone)
	r.Route(core.LineID(9))
	assert.Empty(t, actions.calls)
	assert.Zero(t, checks)

	var unrecognized []uint8
	core.DrainTiming(func(e core.TimingEvent) {
		if e.EventType == core.EvtUnrecognized {
			unrecognized = append(unrecognized, e.OID)
		}
	})
	assert.Equal(t, []uint8{0, 9}, unrecognized)
}

func TestRouterErrorsGoToCheck(t *testing.T) {
	actions := &recordingActions{err: errors.New("boom")}
	var got []error
	r := NewRouter(actions, WithErrorCheck(func(err error) { got = append(got, err) }))

	r.Route(core.Line1)
	assert.Len(t, got, 1)
	assert.EqualError(t, got[0], "boom")
}

func TestRouterDeferred(t *testing.T) {
	actions := &recordingActions{}
	d := &recordingDeferrer{}
	r := NewRouter(actions, WithDeferrer(d), WithErrorCheck(func(error) {}))

	r.Route(core.Line3)
	r.Route(core.Line1)
	assert.Empty(t, actions.calls, "deferred routing must not run actions")
	assert.Equal(t, []core.LineID{core.Line3, core.Line1}, d.lines)

	for _, l := range d.lines {
		r.Execute(l)
	}
	assert.Equal(t, []string{"escalate", "start-repeating"}, actions.calls)
}

func TestRouterDeferredQueueFull(t *testing.T) {
	d := &recordingDeferrer{err: &core.TimerServiceError{Op: "queue", Err: core.ErrNoMem}}
	var got error
	r := NewRouter(&recordingActions{}, WithDeferrer(d), WithErrorCheck(func(err error) { got = err }))

	r.Route(core.Line2)
	assert.ErrorIs(t, got, core.ErrNoMem)
}

func TestRouterDeferredIgnoresUnknownLines(t *testing.T) {
	core.ClearTimingRing()
	q := core.NewEventQueue(1)
	var faults []error
	actions := &recordingActions{}
	r := NewRouter(actions, WithDeferrer(q), WithErrorCheck(func(err error) {
		if err != nil {
			faults = append(faults, err)
		}
	}))

	r.Route(core.LineNone)
	r.Route(core.LineID(9))
	assert.Zero(t, q.Len(), "unknown lines must not take a queue slot")

	// A full queue does not turn an unknown line into a fault
	r.Route(core.Line1)
	r.Route(core.LineID(9))
	assert.Empty(t, faults)
	assert.Equal(t, 1, q.Len())
	assert.Zero(t, q.Dropped())

	q.Execute(r.Execute)
	assert.Equal(t, []string{"start-repeating"}, actions.calls)
}
