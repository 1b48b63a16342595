package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apptimer/core"
)

func TestOutputPins(t *testing.T) {
	g := NewGPIO()
	require.NoError(t, g.ConfigureOutput(17))

	level, err := g.GetPin(17)
	require.NoError(t, err)
	assert.False(t, level, "outputs start low")

	require.NoError(t, g.SetPin(17, true))
	assert.True(t, g.Level(17))
	assert.Equal(t, int64(1), g.Writes())

	assert.ErrorIs(t, g.SetPin(99, true), ErrUnknownPin)
	_, err = g.GetPin(99)
	assert.ErrorIs(t, err, ErrUnknownPin)
}

func TestPinDirectionConflicts(t *testing.T) {
	g := NewGPIO()
	require.NoError(t, g.ConfigureInputPullUp(13))
	require.NoError(t, g.ConfigureInputPullUp(13), "reconfiguring the same direction is allowed")

	assert.ErrorIs(t, g.ConfigureOutput(13), ErrPinInUse)
	assert.ErrorIs(t, g.SetPin(13, false), ErrNotAnOutput)

	require.NoError(t, g.ConfigureOutput(17))
	assert.ErrorIs(t, g.SetFallingEdgeHandler(17, func(core.GPIOPin) {}), ErrNotAnInput)
	assert.ErrorIs(t, g.Press(17), ErrNotAnInput)
	assert.ErrorIs(t, g.SetFallingEdgeHandler(40, func(core.GPIOPin) {}), ErrUnknownPin)
}

func TestPressDeliversFallingEdge(t *testing.T) {
	g := NewGPIO()
	require.NoError(t, g.ConfigureInputPullUp(14))
	assert.True(t, g.Level(14), "pulled-up input idles high")

	var got []core.GPIOPin
	require.NoError(t, g.SetFallingEdgeHandler(14, func(pin core.GPIOPin) {
		got = append(got, pin)
		assert.False(t, g.Level(pin), "pin is low while the handler runs")
	}))

	require.NoError(t, g.Press(14))
	require.NoError(t, g.Press(14))
	assert.Equal(t, []core.GPIOPin{14, 14}, got)
	assert.True(t, g.Level(14), "button released after press")
}

func TestPressWithoutHandler(t *testing.T) {
	g := NewGPIO()
	require.NoError(t, g.ConfigureInputPullUp(15))
	assert.NoError(t, g.Press(15))
}

func TestFailPin(t *testing.T) {
	g := NewGPIO()
	require.NoError(t, g.ConfigureOutput(18))
	g.FailPin(18)

	assert.ErrorIs(t, g.SetPin(18, true), ErrInjectedFault)
	assert.NoError(t, g.ConfigureOutput(19))
	g.FailPin(19)
	assert.ErrorIs(t, g.ConfigureInputPullUp(19), ErrInjectedFault)
}
