// Package serial opens the board's trace UART on the host.
package serial

import (
	"errors"
	"io"
	"time"
)

var (
	ErrNoConfig   = errors.New("serial: config is nil")
	ErrNoDevice   = errors.New("serial: device path is required")
	ErrBadBaud    = errors.New("serial: baud rate must be positive")
	ErrBadTimeout = errors.New("serial: read timeout is negative")
)

// Port is an open trace UART. Reads time out with io.EOF.
type Port interface {
	io.ReadWriteCloser

	// Flush drops bytes received before the monitor attached
	Flush() error
}

// DefaultBaud is the trace UART rate of the firmware targets
const DefaultBaud = 115200

// Config selects the device and line settings
type Config struct {
	Device      string        // e.g. /dev/ttyACM0
	Baud        int
	ReadTimeout time.Duration // 0 blocks
}

// DefaultConfig returns the settings the firmware targets use
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Validate rejects configs Open cannot use
func (c *Config) Validate() error {
	switch {
	case c == nil:
		return ErrNoConfig
	case c.Device == "":
		return ErrNoDevice
	case c.Baud <= 0:
		return ErrBadBaud
	case c.ReadTimeout < 0:
		return ErrBadTimeout
	}
	return nil
}
