package autom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/autom/config"
	"markestedt/autom/keyboard"
	"markestedt/autom/mouse"
	"markestedt/autom/platform"
	"markestedt/autom/platform/platformtest"
	"markestedt/autom/sound"
)

type fixture struct {
	a      *Automator
	kb     *platformtest.Keyboard
	m      *platformtest.Mouse
	runner *platformtest.Runner
}

func newFixture(t *testing.T, keyState platform.KeyStateReader, tools ...string) *fixture {
	t.Helper()
	f := &fixture{
		kb:     platformtest.NewKeyboard(),
		m:      platformtest.NewMouse(100, 200),
		runner: platformtest.NewRunner(tools...),
	}
	// keyboard and mouse share one recorder so the trace is ordered
	f.m.Recorder = f.kb.Recorder

	a, err := New(Options{
		Config:   config.Default(),
		Keyboard: f.kb,
		Mouse:    f.m,
		KeyState: keyState,
		Runner:   f.runner,
		Sleep:    f.kb.Sleep,
		Devices: func() ([]sound.Device, error) {
			return []sound.Device{{ID: "1", Name: "Speakers", Default: true}}, nil
		},
	})
	require.NoError(t, err)
	f.a = a
	return f
}

func TestNewRequiresDevices(t *testing.T) {
	_, err := New(Options{Mouse: platformtest.NewMouse(0, 0)})
	require.Error(t, err)

	_, err = New(Options{Keyboard: platformtest.NewKeyboard()})
	require.Error(t, err)
}

func TestConfiguredDefaults(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, 10*time.Millisecond, f.a.KeyDelay())
	assert.Equal(t, 10*time.Millisecond, f.a.KeyHold())
	assert.Equal(t, 50*time.Millisecond, f.a.ClickHold())
}

func TestKeyboardPressUsesTimings(t *testing.T) {
	f := newFixture(t, nil)

	err := f.a.KeyboardPress([]string{"Ctrl", "c"}, f.a.KeyDelay(), f.a.KeyHold())
	require.NoError(t, err)
	assert.Equal(t,
		"press(ctrl) sleep(10ms) press(c) sleep(10ms) release(c) sleep(10ms) release(ctrl)",
		f.kb.Trace())
}

func TestKeyboardPressInvalidKeyEmitsNothing(t *testing.T) {
	f := newFixture(t, nil)

	err := f.a.KeyboardPress([]string{"Ctrl", "NotAKey"}, 0, 0)
	require.ErrorIs(t, err, keyboard.ErrInvalidKey)
	assert.Empty(t, f.kb.Events())
}

func TestMouseClickAtCurrentPosition(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.a.MouseClick(mouse.Target{}, "left", f.a.ClickHold()))
	assert.Equal(t, "press(100,200,1) sleep(50ms) release(100,200,1)", f.m.Trace())
	assert.Equal(t, mouse.Point{X: 100, Y: 200}, f.a.MouseGetPosition())
}

func TestMouseSetPositionRelative(t *testing.T) {
	f := newFixture(t, nil)

	f.a.MouseSetPosition(5.9, -10, true)
	assert.Equal(t, mouse.Point{X: 105, Y: 190}, f.a.MouseGetPosition())
}

func TestMouseScroll(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.a.MouseScroll("down", 2))
	assert.Len(t, f.m.Ops("press"), 2)
	for _, e := range f.m.Ops("press") {
		assert.Equal(t, int(platform.ButtonScrollDown), e.Btn)
	}

	require.ErrorIs(t, f.a.MouseScroll("sideways", 1), mouse.ErrInvalidButton)
}

func TestKeyboardTogglesNative(t *testing.T) {
	f := newFixture(t, platformtest.KeyState{platform.VKCapital: 1})

	assert.Equal(t, keyboard.StrategyNative, f.a.ToggleStrategy())
	toggles, err := f.a.KeyboardToggles()
	require.NoError(t, err)
	assert.Equal(t, keyboard.Toggles{CapsLock: true}, toggles)
}

func TestKeyboardTogglesWithoutMechanism(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, keyboard.StrategyNone, f.a.ToggleStrategy())
	_, err := f.a.KeyboardToggles()
	require.ErrorIs(t, err, keyboard.ErrNoToggleQueryMechanism)
}

func TestKeyboardKeys(t *testing.T) {
	f := newFixture(t, nil)
	assert.Contains(t, f.a.KeyboardKeys(), "Ctrl")
}

func TestSoundVolume(t *testing.T) {
	f := newFixture(t, nil, "amixer")
	f.runner.Outputs["/usr/bin/amixer -D pulse sget Master"] =
		"Simple mixer control 'Master',0\n  Front Left: Playback 42 [42%] [on]\n"

	level, err := f.a.SoundGetVolume()
	require.NoError(t, err)
	assert.Equal(t, 42, level)

	muted, err := f.a.SoundGetMute()
	require.NoError(t, err)
	assert.False(t, muted)

	require.ErrorIs(t, f.a.SoundSetVolume(101, false), sound.ErrInvalidVolume)
}

func TestSoundWithoutRunner(t *testing.T) {
	a, err := New(Options{Keyboard: platformtest.NewKeyboard(), Mouse: platformtest.NewMouse(0, 0)})
	require.NoError(t, err)

	_, err = a.SoundGetVolume()
	assert.True(t, errors.Is(err, sound.ErrNoMixerMechanism))
}

func TestSoundDevices(t *testing.T) {
	f := newFixture(t, nil)

	devices, err := f.a.SoundDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Speakers", devices[0].Name)
}

func TestWebDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	f := newFixture(t, nil)
	path := filepath.Join(t.TempDir(), "sub", "hello.txt")
	require.NoError(t, f.a.WebDownloadFile(context.Background(), srv.URL, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
