package protocol

import (
	"io"

	"apptimer/core"
)

// TraceEmitter drains the core trace ring onto a byte stream, one frame per
// event. Firmware calls Flush from the main loop, never from an interrupt.
type TraceEmitter struct {
	w    io.Writer
	out  *ScratchOutput
	seq  uint8
	lost uint32
	err  error
}

// NewTraceEmitter creates an emitter writing to w
func NewTraceEmitter(w io.Writer) *TraceEmitter {
	return &TraceEmitter{w: w, out: NewScratchOutput()}
}

// Lost returns the number of events overwritten in the ring before they
// could be sent
func (e *TraceEmitter) Lost() uint32 {
	return e.lost
}

// Flush encodes and writes every event recorded since the last Flush
func (e *TraceEmitter) Flush() error {
	e.err = nil
	e.lost += core.DrainTiming(e.emit)
	if e.err == nil {
		e.write()
	}
	return e.err
}

func (e *TraceEmitter) emit(evt core.TimingEvent) {
	if e.err != nil {
		return
	}
	if e.out.Free() < MessageLengthMax {
		if e.write(); e.err != nil {
			return
		}
	}
	if err := EncodeTraceFrame(e.out, e.seq, evt); err != nil {
		e.err = err
		return
	}
	e.seq++
}

func (e *TraceEmitter) write() {
	data := e.out.Result()
	for len(data) > 0 {
		n, err := e.w.Write(data)
		if err != nil {
			e.err = err
			break
		}
		if n == 0 {
			e.err = io.ErrShortWrite
			break
		}
		data = data[n:]
	}
	e.out.Reset()
}
