package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/autom/platform"
	"markestedt/autom/platform/platformtest"
)

const xsetOutput = `Keyboard Control:
  auto repeat:  on    key click percent:  0    LED mask:  5
  XKB indicators:
    00: Caps Lock:   on     01: Num Lock:    off    02: Scroll Lock: on
  auto repeat delay:  660    repeat rate:  25
`

func TestNativeToggles(t *testing.T) {
	native := platformtest.KeyState{platform.VKCapital: 1}
	p := NewProber(native, platformtest.NewRunner("xset"), "xset")
	assert.Equal(t, StrategyNative, p.Strategy())

	toggles, err := p.Toggles()
	require.NoError(t, err)
	assert.Equal(t, Toggles{CapsLock: true, NumLock: false, ScrollLock: false}, toggles)
}

func TestNativeTogglesTreatsAnyNonzeroAsActive(t *testing.T) {
	native := platformtest.KeyState{platform.VKNumLock: -127, platform.VKScroll: 1}
	p := NewProber(native, nil, "")

	toggles, err := p.Toggles()
	require.NoError(t, err)
	assert.Equal(t, Toggles{NumLock: true, ScrollLock: true}, toggles)
}

func TestDisplayServerToggles(t *testing.T) {
	runner := platformtest.NewRunner("xset")
	runner.Outputs["/usr/bin/xset q"] = xsetOutput

	p := NewProber(nil, runner, "xset")
	assert.Equal(t, StrategyDisplayServer, p.Strategy())

	toggles, err := p.Toggles()
	require.NoError(t, err)
	assert.Equal(t, Toggles{CapsLock: true, NumLock: false, ScrollLock: true}, toggles)

	// no caching between queries
	runner.Outputs["/usr/bin/xset q"] = "LED mask: 2"
	toggles, err = p.Toggles()
	require.NoError(t, err)
	assert.Equal(t, Toggles{NumLock: true}, toggles)
	assert.Len(t, runner.Calls, 2)
}

func TestDisplayServerParseFailure(t *testing.T) {
	runner := platformtest.NewRunner("xset")
	runner.Outputs["/usr/bin/xset q"] = "Keyboard Control:\n  auto repeat: on\n"

	_, err := NewProber(nil, runner, "xset").Toggles()
	assert.ErrorIs(t, err, ErrToggleQueryParse)
}

func TestDisplayServerCommandFailure(t *testing.T) {
	runner := platformtest.NewRunner("xset")
	runner.ExitCode["/usr/bin/xset q"] = 1

	_, err := NewProber(nil, runner, "xset").Toggles()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrToggleQueryParse)
}

func TestNoToggleMechanism(t *testing.T) {
	p := NewProber(nil, platformtest.NewRunner(), "xset")
	assert.Equal(t, StrategyNone, p.Strategy())

	toggles, err := p.Toggles()
	assert.ErrorIs(t, err, ErrNoToggleQueryMechanism)
	assert.Equal(t, Toggles{}, toggles)
}

func TestParseLEDMask(t *testing.T) {
	cases := map[string]Toggles{
		"LED mask: 0":        {},
		"LED mask:  1":       {CapsLock: true},
		"LED mask:\t2":       {NumLock: true},
		"LED mask: 4":        {ScrollLock: true},
		"LED mask: 7":        {CapsLock: true, NumLock: true, ScrollLock: true},
		"x LED  mask: 3 y":   {CapsLock: true, NumLock: true},
		"LED mask: 00000002": {NumLock: true},
	}
	for in, want := range cases {
		got, err := ParseLEDMask(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLEDMask("LED mask: on")
	assert.ErrorIs(t, err, ErrToggleQueryParse)
}
