package mouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/autom/platform/platformtest"
)

func newTestController(x, y int) (*Controller, *platformtest.Mouse) {
	m := platformtest.NewMouse(x, y)
	c := NewController(m)
	c.Sleep = m.Sleep
	return c, m
}

func TestClickAtCurrentPosition(t *testing.T) {
	c, m := newTestController(120, 340)

	require.NoError(t, c.Click(Target{}, "left", 50*time.Millisecond))
	assert.Equal(t, "press(120,340,1) sleep(50ms) release(120,340,1)", m.Trace())
}

func TestClickAtTarget(t *testing.T) {
	c, m := newTestController(0, 0)

	require.NoError(t, c.Click(At(50, 60), "right", 0))
	assert.Equal(t, "press(50,60,3) sleep(0s) release(50,60,3)", m.Trace())
}

func TestClickPartialTarget(t *testing.T) {
	c, m := newTestController(7, 9)

	require.NoError(t, c.Click(Target{X: 100, HasX: true}, "middle", 0))
	assert.Equal(t, "press(100,9,2) sleep(0s) release(100,9,2)", m.Trace())
}

func TestClickValidatesBeforeInjecting(t *testing.T) {
	c, m := newTestController(0, 0)

	err := c.Click(Target{}, "thumb", 0)
	assert.ErrorIs(t, err, ErrInvalidButton)

	err = c.Click(Target{}, "left", -time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	err = c.Down(Target{}, "Left")
	assert.ErrorIs(t, err, ErrInvalidButton)

	err = c.Up(Target{}, "")
	assert.ErrorIs(t, err, ErrInvalidButton)

	assert.Empty(t, m.Events())
}

func TestDownUpSinglePhase(t *testing.T) {
	c, m := newTestController(3, 4)

	require.NoError(t, c.Down(Target{}, "left"))
	require.NoError(t, c.Up(At(10, 20), "left"))
	assert.Equal(t, "press(3,4,1) release(10,20,1)", m.Trace())
}

func TestSetPosition(t *testing.T) {
	c, m := newTestController(100, 100)

	c.SetPosition(10.9, 20.2, false)
	assert.Equal(t, Point{X: 10, Y: 20}, c.Position())

	c.SetPosition(-5, 7.5, true)
	assert.Equal(t, Point{X: 5, Y: 27}, c.Position())
	assert.Equal(t, "move(10,20) move(5,27)", m.Trace())
}

func TestPositionIsStable(t *testing.T) {
	c, _ := newTestController(42, 24)
	assert.Equal(t, c.Position(), c.Position())
}

func TestScroll(t *testing.T) {
	c, m := newTestController(1, 2)

	require.NoError(t, c.Scroll("down", 2))
	assert.Equal(t, "press(1,2,5) sleep(0s) release(1,2,5) press(1,2,5) sleep(0s) release(1,2,5)", m.Trace())

	assert.ErrorIs(t, c.Scroll("sideways", 1), ErrInvalidButton)
	assert.Error(t, c.Scroll("up", -1))
}

func TestParseButton(t *testing.T) {
	codes := map[string]Button{
		"left": 1, "middle": 2, "right": 3,
		"scroll_up": 4, "scroll_down": 5, "scroll_left": 6, "scroll_right": 7,
	}
	for name, code := range codes {
		b, err := ParseButton(name)
		require.NoError(t, err)
		assert.Equal(t, code, b)
		assert.Equal(t, name, b.String())
	}
	assert.Len(t, ButtonNames(), len(codes))
}
