//go:build !wasm

package serial

import (
	"fmt"

	"github.com/tarm/serial"
)

type tarmPort struct {
	*serial.Port
}

// Open opens the trace UART described by cfg
func Open(cfg *Config) (Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	return tarmPort{p}, nil
}
