//go:build rp2040 || rp2350

package pio

// PIO LED bank
// One state machine owns four consecutive pins and copies every word pulled
// from its TX FIFO onto them, so a single FIFO write updates the whole bank
// without touching SIO from interrupt context.

import (
	"apptimer/core"
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

const ledCount = core.NumLines

var ErrNotBankPin = errors.New("pin is not part of the PIO LED bank")

// buildLEDProgram creates the bank program using AssemblerV0
func buildLEDProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                 // 0: pull block
		asm.Out(rp2pio.OutDestPins, ledCount).Encode(), // 1: out pins, 4
		// .wrap
	}
}

const ledPIOOrigin = 0 // Load at offset 0 for correct wrap addresses

// LEDBank implements core.GPIODriver for the pins driven by the program.
// It is output-only.
type LEDBank struct {
	pio        *rp2pio.PIO
	sm         rp2pio.StateMachine
	base       machine.Pin
	shadow     uint32 // Last word sent, bit i = level of base+i
	configured uint32
}

// NewLEDBank creates a bank on the given PIO block (0 or 1) and state machine (0-3)
func NewLEDBank(pioNum, smNum uint8) *LEDBank {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}
	return &LEDBank{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// Init loads the program and starts the state machine with every pin high
func (b *LEDBank) Init(base machine.Pin) error {
	b.base = base

	// Claim the state machine first
	b.sm.TryClaim()

	program := buildLEDProgram()
	offset, err := b.pio.AddProgram(program, ledPIOOrigin)
	if err != nil {
		return err
	}

	for i := 0; i < ledCount; i++ {
		(base + machine.Pin(i)).Configure(machine.PinConfig{Mode: b.pio.PinMode()})
	}

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(base, ledCount)
	// Shift right, no autopull (explicit PULL), 32-bit threshold
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1000, 0)

	// Initialize state machine before setting pin directions
	b.sm.Init(offset, cfg)
	b.sm.SetPindirsConsecutive(base, ledCount, true)
	b.sm.SetPinsConsecutive(base, ledCount, true)
	b.shadow = 1<<ledCount - 1

	b.sm.SetEnabled(true)
	return nil
}

func (b *LEDBank) bit(pin core.GPIOPin) (uint32, error) {
	p := machine.Pin(pin)
	if p < b.base || p >= b.base+ledCount {
		return 0, ErrNotBankPin
	}
	return 1 << uint32(p-b.base), nil
}

// ConfigureOutput accepts the bank's own pins
func (b *LEDBank) ConfigureOutput(pin core.GPIOPin) error {
	mask, err := b.bit(pin)
	if err != nil {
		return err
	}
	b.configured |= mask
	return nil
}

// ConfigureInputPullUp always fails; the bank cannot read
func (b *LEDBank) ConfigureInputPullUp(pin core.GPIOPin) error {
	return core.ErrInvalidParam
}

// SetPin updates one bit and pushes the whole bank word
func (b *LEDBank) SetPin(pin core.GPIOPin, value bool) error {
	mask, err := b.bit(pin)
	if err != nil {
		return err
	}
	if b.configured&mask == 0 {
		return core.ErrInvalidState
	}
	if value {
		b.shadow |= mask
	} else {
		b.shadow &^= mask
	}

	for b.sm.IsTxFIFOFull() {
		// Busy wait - the program drains a word every two cycles
	}
	b.sm.TxPut(b.shadow)
	return nil
}

// GetPin returns the level last written to pin
func (b *LEDBank) GetPin(pin core.GPIOPin) (bool, error) {
	mask, err := b.bit(pin)
	if err != nil {
		return false, err
	}
	return b.shadow&mask != 0, nil
}
