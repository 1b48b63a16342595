//go:build linux && !tinygo

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"apptimer/app"
	"apptimer/core"
)

// BoardConfig is the YAML board file. Pins are BCM numbers.
type BoardConfig struct {
	Name             string        `yaml:"name"`
	Buttons          []uint32      `yaml:"buttons"`
	LEDs             []uint32      `yaml:"leds"`
	TickHz           uint32        `yaml:"tick_hz"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	Debounce         time.Duration `yaml:"debounce"`
	RepeatPeriodMS   uint32        `yaml:"repeat_period_ms"`
	EscalationStepMS uint32        `yaml:"escalation_step_ms"`
	Deferred         bool          `yaml:"deferred"`
	QueueSize        int           `yaml:"queue_size"`
	LogLevel         string        `yaml:"log_level"`
}

// DefaultBoardConfig returns the wiring of the reference Raspberry Pi hat
func DefaultBoardConfig() *BoardConfig {
	cfg := &BoardConfig{}
	applyDefaults(cfg)
	return cfg
}

// LoadBoardConfig reads a YAML board file and fills in defaults
func LoadBoardConfig(path string) (*BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board config: %w", err)
	}
	return ParseBoardConfig(data)
}

// ParseBoardConfig parses YAML board config data
func ParseBoardConfig(data []byte) (*BoardConfig, error) {
	var cfg BoardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse board config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *BoardConfig) {
	if cfg.Name == "" {
		cfg.Name = "rpi"
	}
	if len(cfg.Buttons) == 0 {
		cfg.Buttons = []uint32{17, 27, 22, 23}
	}
	if len(cfg.LEDs) == 0 {
		cfg.LEDs = []uint32{5, 6, 13, 19}
	}
	if cfg.TickHz == 0 {
		cfg.TickHz = core.DefaultTimerFreq
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = time.Millisecond
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = 20 * time.Millisecond
	}
	if cfg.RepeatPeriodMS == 0 {
		cfg.RepeatPeriodMS = app.DefaultRepeatPeriodMS
	}
	if cfg.EscalationStepMS == 0 {
		cfg.EscalationStepMS = app.DefaultEscalationStepMS
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = core.DefaultEventQueueSize
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks pin counts and rejects a pin used twice
func (cfg *BoardConfig) Validate() error {
	if len(cfg.Buttons) != core.NumLines {
		return fmt.Errorf("board config: need %d buttons, got %d", core.NumLines, len(cfg.Buttons))
	}
	if len(cfg.LEDs) != core.NumLines {
		return fmt.Errorf("board config: need %d leds, got %d", core.NumLines, len(cfg.LEDs))
	}
	seen := make(map[uint32]bool, 2*core.NumLines)
	for _, pin := range append(append([]uint32{}, cfg.Buttons...), cfg.LEDs...) {
		if seen[pin] {
			return fmt.Errorf("board config: GPIO%d used twice", pin)
		}
		seen[pin] = true
	}
	if cfg.PollInterval < 0 || cfg.Debounce < 0 {
		return errors.New("board config: negative duration")
	}
	return nil
}

// Board converts the config into the app wiring for drv
func (cfg *BoardConfig) Board(drv *PeriphGPIO) app.Board {
	b := app.Board{
		OutputGPIO: drv,
		InputGPIO:  drv,
		Edges:      drv,
		Deferred:   cfg.Deferred,
		QueueSize:  cfg.QueueSize,
		Controller: app.ControllerConfig{
			RepeatPeriodMS:   cfg.RepeatPeriodMS,
			EscalationStepMS: cfg.EscalationStepMS,
		},
	}
	for i := 0; i < core.NumLines; i++ {
		b.Inputs[i] = core.GPIOPin(cfg.Buttons[i])
		b.Outputs[i] = core.GPIOPin(cfg.LEDs[i])
	}
	return b
}
