package core

import "errors"

// Status errors returned by the timer service and the GPIO ports.
var (
	ErrNoMem        = errors.New("no memory for operation")
	ErrInvalidParam = errors.New("invalid parameter")
	ErrInvalidState = errors.New("invalid state")
)

// TimerServiceError reports a rejected create/start/stop call.
// There is no recovery path; callers hand it to ErrorCheck.
type TimerServiceError struct {
	Op    string
	Timer TimerID
	Err   error
}

func (e *TimerServiceError) Error() string {
	return "timer " + e.Op + " id=" + itoa(int(e.Timer)) + ": " + e.Err.Error()
}

func (e *TimerServiceError) Unwrap() error {
	return e.Err
}

// PeripheralInitError reports a clock, output or input configuration failure
// during startup.
type PeripheralInitError struct {
	Peripheral string
	Pin        GPIOPin
	Err        error
}

func (e *PeripheralInitError) Error() string {
	return e.Peripheral + " init failed on pin " + utoa(uint32(e.Pin)) + ": " + e.Err.Error()
}

func (e *PeripheralInitError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err belongs to the fatal part of the taxonomy
func IsFatal(err error) bool {
	var tse *TimerServiceError
	var pie *PeripheralInitError
	return errors.As(err, &tse) || errors.As(err, &pie)
}
