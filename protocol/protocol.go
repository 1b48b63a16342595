// Package protocol implements the trace link between the board and the host.
//
// Every trace event travels in its own Klipper-style message block:
//
//	<len> <seq> <payload...> <crc16 hi> <crc16 lo> <0x7E>
//
// The payload is a run of VLQ-encoded fields. The CRC covers the length,
// sequence and payload bytes.
package protocol

// Version is the trace link version, sent as the first field of every frame
const Version = 1

// Frame layout constants
const (
	MessageMax         = 512 // Scratch output capacity
	MessageHeaderSize  = 2   // len + seq
	MessageTrailerSize = 3   // crc16 + sync
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
	MessageSeqMask     = 0x0F
)
