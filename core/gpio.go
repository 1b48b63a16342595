// Output and input ports
// Four logical output lines (LEDs) and four logical input lines (buttons)
// mapped onto board pins through a GPIODriver.
package core

// LineID names a logical input or output line, independent of board pin
// numbering. Zero is never a valid line.
type LineID uint8

const (
	LineNone LineID = iota
	Line1
	Line2
	Line3
	Line4
)

// NumLines is the number of lines per port
const NumLines = 4

// Valid reports whether l is one of the four lines
func (l LineID) Valid() bool {
	return l >= Line1 && l <= Line4
}

// Output line flags
const (
	DF_ON         = 1 << 0 // Current pin level (1=high)
	DF_CONFIGURED = 1 << 1 // Pin configured as output
)

// OutputPort drives four output lines. The LEDs sit between the supply and
// the pin, so Set (high) turns a LED off and Clear (low) turns it on.
type OutputPort struct {
	drv   GPIODriver
	pins  [NumLines]GPIOPin
	flags [NumLines]uint8
}

// NewOutputPort maps Line1..Line4 onto pins
func NewOutputPort(drv GPIODriver, pins [NumLines]GPIOPin) *OutputPort {
	return &OutputPort{drv: drv, pins: pins}
}

// Init configures every line as an output and sets it (all LEDs off)
func (p *OutputPort) Init() error {
	for i, pin := range p.pins {
		if err := p.drv.ConfigureOutput(pin); err != nil {
			return &PeripheralInitError{Peripheral: "output", Pin: pin, Err: err}
		}
		p.flags[i] |= DF_CONFIGURED
	}
	for i := range p.pins {
		if err := p.write(LineID(i+1), true); err != nil {
			return &PeripheralInitError{Peripheral: "output", Pin: p.pins[i], Err: err}
		}
	}
	return nil
}

// Pin returns the board pin behind line
func (p *OutputPort) Pin(line LineID) GPIOPin {
	if !line.Valid() {
		return 0
	}
	return p.pins[line-1]
}

// Set drives line high (LED off)
func (p *OutputPort) Set(line LineID) error {
	return p.write(line, true)
}

// Clear drives line low (LED on)
func (p *OutputPort) Clear(line LineID) error {
	return p.write(line, false)
}

// Toggle inverts the level of line
func (p *OutputPort) Toggle(line LineID) error {
	if !line.Valid() {
		return ErrInvalidParam
	}
	state := disableInterrupts()
	defer restoreInterrupts(state)

	level := p.flags[line-1]&DF_ON == 0
	return p.writeLocked(line, level)
}

// State returns the last level written to line (true = high)
func (p *OutputPort) State(line LineID) bool {
	if !line.Valid() {
		return false
	}
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return p.flags[line-1]&DF_ON != 0
}

func (p *OutputPort) write(line LineID, level bool) error {
	if !line.Valid() {
		return ErrInvalidParam
	}
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return p.writeLocked(line, level)
}

func (p *OutputPort) writeLocked(line LineID, level bool) error {
	idx := line - 1
	if p.flags[idx]&DF_CONFIGURED == 0 {
		return ErrInvalidState
	}
	if err := p.drv.SetPin(p.pins[idx], level); err != nil {
		return err
	}
	if level {
		p.flags[idx] |= DF_ON
	} else {
		p.flags[idx] &^= DF_ON
	}
	RecordTiming(EvtOutput, uint8(line), GetTime(), boolToU32(level), 0)
	return nil
}

// InputPort turns falling edges on four pulled-up pins into line events.
// Debouncing belongs to the driver.
type InputPort struct {
	drv   GPIODriver
	edges EdgeDriver
	pins  [NumLines]GPIOPin
}

// NewInputPort maps Line1..Line4 onto pins
func NewInputPort(drv GPIODriver, edges EdgeDriver, pins [NumLines]GPIOPin) *InputPort {
	return &InputPort{drv: drv, edges: edges, pins: pins}
}

// Init configures the pins and enables edge events. handler receives the
// line of the pin that fell, in interrupt context.
func (p *InputPort) Init(handler func(LineID)) error {
	if handler == nil {
		return &PeripheralInitError{Peripheral: "input", Err: ErrInvalidParam}
	}
	for _, pin := range p.pins {
		if err := p.drv.ConfigureInputPullUp(pin); err != nil {
			return &PeripheralInitError{Peripheral: "input", Pin: pin, Err: err}
		}
	}
	onEdge := func(pin GPIOPin) {
		line := p.LineOf(pin)
		if line == LineNone {
			RecordTiming(EvtDropped, 0, GetTime(), uint32(pin), 0)
			return
		}
		handler(line)
	}
	for _, pin := range p.pins {
		if err := p.edges.SetFallingEdgeHandler(pin, onEdge); err != nil {
			return &PeripheralInitError{Peripheral: "input", Pin: pin, Err: err}
		}
	}
	return nil
}

// LineOf returns the line wired to pin, or LineNone
func (p *InputPort) LineOf(pin GPIOPin) LineID {
	for i, candidate := range p.pins {
		if candidate == pin {
			return LineID(i + 1)
		}
	}
	return LineNone
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
