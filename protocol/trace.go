package protocol

import (
	"errors"

	"apptimer/core"
)

var (
	ErrFrameTooLarge = errors.New("trace frame exceeds maximum length")
	ErrBadVersion    = errors.New("unsupported trace link version")
)

// TraceFrame is one decoded trace frame
type TraceFrame struct {
	Seq   uint8
	Event core.TimingEvent
}

// EncodeTraceFrame appends a framed event to output
func EncodeTraceFrame(output OutputBuffer, seq uint8, evt core.TimingEvent) error {
	start := output.CurPosition()
	output.Output([]byte{0, MessageDest | (seq & MessageSeqMask)})

	EncodeVLQUint(output, Version)
	EncodeVLQUint(output, evt.Seq)
	EncodeVLQUint(output, uint32(evt.EventType))
	EncodeVLQUint(output, uint32(evt.OID))
	EncodeVLQUint(output, evt.Clock)
	EncodeVLQUint(output, evt.Value1)
	EncodeVLQUint(output, evt.Value2)

	length := output.CurPosition() - start + MessageTrailerSize
	if length > MessageLengthMax {
		return ErrFrameTooLarge
	}
	output.Update(start, byte(length))

	crc := CRC16(output.DataSince(start))
	output.Output([]byte{byte(crc >> 8), byte(crc), MessageValueSync})
	if output.CurPosition()-start != length {
		// Ran out of room part way through
		return ErrBufferTooSmall
	}
	return nil
}

// decodeTracePayload parses the VLQ fields of one frame
func decodeTracePayload(payload []byte) (core.TimingEvent, error) {
	var evt core.TimingEvent

	version, err := DecodeVLQUint(&payload)
	if err != nil {
		return evt, err
	}
	if version != Version {
		return evt, ErrBadVersion
	}

	var fields [6]uint32
	for i := range fields {
		if fields[i], err = DecodeVLQUint(&payload); err != nil {
			return evt, err
		}
	}
	evt.Seq = fields[0]
	evt.EventType = uint8(fields[1])
	evt.OID = uint8(fields[2])
	evt.Clock = fields[3]
	evt.Value1 = fields[4]
	evt.Value2 = fields[5]
	return evt, nil
}

// TraceDecoder reassembles trace frames from a byte stream. Corrupt frames
// are skipped by hunting for the next sync byte.
type TraceDecoder struct {
	fifo      *FifoBuffer
	synced    bool
	badFrames uint32
}

// NewTraceDecoder creates a decoder buffering up to capacity bytes
func NewTraceDecoder(capacity int) *TraceDecoder {
	if capacity < 2*MessageLengthMax {
		capacity = 2 * MessageLengthMax
	}
	return &TraceDecoder{
		fifo:   NewFifoBuffer(capacity),
		synced: true,
	}
}

// Feed buffers stream bytes and returns how many were accepted.
// Call Next until it reports false before feeding more; a buffer that is
// still full after that holds no frame and is discarded.
func (d *TraceDecoder) Feed(data []byte) int {
	if len(data) > 0 && d.fifo.Free() == 0 {
		d.fifo.Reset()
		d.synced = false
		d.badFrames++
	}
	return d.fifo.Write(data)
}

// BadFrames returns the number of frames dropped for length, CRC or
// payload errors
func (d *TraceDecoder) BadFrames() uint32 {
	return d.badFrames
}

// Next returns the next complete frame, if one is buffered
func (d *TraceDecoder) Next() (TraceFrame, bool) {
	for {
		data := d.fifo.Data()

		if !d.synced {
			pos := -1
			for i, b := range data {
				if b == MessageValueSync {
					pos = i
					break
				}
			}
			if pos < 0 {
				d.fifo.Pop(len(data))
				return TraceFrame{}, false
			}
			d.fifo.Pop(pos + 1)
			d.synced = true
			continue
		}

		// Skip leading sync bytes
		if len(data) > 0 && data[0] == MessageValueSync {
			d.fifo.Pop(1)
			continue
		}
		if len(data) < MessageLengthMin {
			return TraceFrame{}, false
		}

		length := int(data[0])
		if length < MessageLengthMin || length > MessageLengthMax {
			d.resync()
			continue
		}
		if len(data) < length {
			return TraceFrame{}, false
		}

		frame := data[:length]
		crc := uint16(frame[length-3])<<8 | uint16(frame[length-2])
		if frame[length-1] != MessageValueSync || crc != CRC16(frame[:length-MessageTrailerSize]) {
			d.resync()
			continue
		}

		seq := frame[1] & MessageSeqMask
		evt, err := decodeTracePayload(frame[MessageHeaderSize : length-MessageTrailerSize])
		d.fifo.Pop(length)
		if err != nil {
			d.badFrames++
			continue
		}
		return TraceFrame{Seq: seq, Event: evt}, true
	}
}

func (d *TraceDecoder) resync() {
	d.badFrames++
	d.fifo.Pop(1)
	d.synced = false
}
