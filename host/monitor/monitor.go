// Package monitor decodes the board's trace link and logs each event.
package monitor

import (
	"context"
	"errors"
	"io"

	"apptimer/core"
	"apptimer/logger"
	"apptimer/protocol"
)

// Stats summarizes a monitoring session
type Stats struct {
	Frames    uint64
	Faults    uint64
	Gaps      uint64 // Events missing between consecutive frames
	Restarts  uint64 // Times the event sequence went backwards
	BadFrames uint32
}

// Monitor reads trace frames from a stream
type Monitor struct {
	log     logger.Logger
	decoder *protocol.TraceDecoder
	stats   Stats

	haveSeq bool
	nextSeq uint32

	// OnEvent, when set, sees every decoded event after it is logged
	OnEvent func(core.TimingEvent)
}

// New creates a monitor logging to log
func New(log logger.Logger) *Monitor {
	return &Monitor{
		log:     log,
		decoder: protocol.NewTraceDecoder(512),
	}
}

// Stats returns the counters collected so far
func (m *Monitor) Stats() Stats {
	s := m.stats
	s.BadFrames = m.decoder.BadFrames()
	return s
}

// Run reads r until ctx is done or r fails. io.EOF from r is treated as a
// read timeout when keepGoing is true, and as the end of the stream otherwise.
func (m *Monitor) Run(ctx context.Context, r io.Reader, keepGoing bool) error {
	buf := make([]byte, 64)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		n, err := r.Read(buf)
		if n > 0 {
			m.Process(buf[:n])
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF) && keepGoing:
		case errors.Is(err, io.EOF):
			return nil
		default:
			return err
		}
	}
}

// Process feeds raw link bytes and logs every completed frame
func (m *Monitor) Process(data []byte) {
	for len(data) > 0 {
		n := m.decoder.Feed(data)
		data = data[n:]
		for {
			frame, ok := m.decoder.Next()
			if !ok {
				break
			}
			m.handle(frame)
		}
	}
}

func (m *Monitor) handle(frame protocol.TraceFrame) {
	evt := frame.Event
	m.stats.Frames++

	switch {
	case !m.haveSeq || evt.Seq == m.nextSeq:
	case evt.Seq < m.nextSeq:
		// The board rebooted and its ring counts from zero again
		m.stats.Restarts++
		m.log.Info("board restarted", "last", m.nextSeq-1, "got", evt.Seq)
	default:
		missed := evt.Seq - m.nextSeq
		m.stats.Gaps += uint64(missed)
		m.log.Warn("trace gap", "expected", m.nextSeq, "got", evt.Seq, "missed", missed)
	}
	m.haveSeq = true
	m.nextSeq = evt.Seq + 1

	attrs := []any{
		"seq", evt.Seq,
		"event", core.EventName(evt.EventType),
		"oid", evt.OID,
		"clock", evt.Clock,
		"v1", evt.Value1,
		"v2", evt.Value2,
	}
	if evt.EventType == core.EvtFault {
		m.stats.Faults++
		m.log.Error("board fault", attrs...)
	} else {
		m.log.Info("trace", attrs...)
	}

	if m.OnEvent != nil {
		m.OnEvent(evt)
	}
}
