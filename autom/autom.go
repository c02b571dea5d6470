// Package autom is a desktop-automation facade: synthetic keyboard and mouse
// input, lock key state, system volume, modal dialogs and file downloads
// behind one value.
//
// Input methods take explicit timings; KeyDelay, KeyHold and ClickHold return
// the configured defaults for callers that have no opinion.
package autom

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"markestedt/autom/config"
	"markestedt/autom/dialog"
	"markestedt/autom/download"
	"markestedt/autom/keyboard"
	"markestedt/autom/mouse"
	"markestedt/autom/platform"
	"markestedt/autom/sound"
)

// Options are the primitives an Automator is built from. Nil fields fall
// back to defaults where one exists.
type Options struct {
	Config   *config.Config
	Keyboard platform.Keyboard
	Mouse    platform.Mouse
	KeyState platform.KeyStateReader
	Runner   platform.Runner
	Table    *keyboard.Table

	HTTPClient *http.Client

	// Devices lists playback devices; sound.ListDevices if nil.
	Devices func() ([]sound.Device, error)

	// Sleep replaces time.Sleep for key and click timings.
	Sleep func(time.Duration)
}

// Automator composes the keyboard, mouse, toggle, mixer, dialog and download
// components.
type Automator struct {
	cfg     *config.Config
	keys    *keyboard.Sequencer
	toggles *keyboard.Prober
	mouse   *mouse.Controller
	mixer   *sound.Mixer
	client  *http.Client
	devices func() ([]sound.Device, error)
}

// New builds an Automator from opts
func New(opts Options) (*Automator, error) {
	if opts.Keyboard == nil {
		return nil, fmt.Errorf("keyboard is required")
	}
	if opts.Mouse == nil {
		return nil, fmt.Errorf("mouse is required")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	a := &Automator{
		cfg:     cfg,
		keys:    keyboard.NewSequencer(opts.Keyboard, opts.Table),
		toggles: keyboard.NewProber(opts.KeyState, opts.Runner, cfg.Toggles.Tool),
		mouse:   mouse.NewController(opts.Mouse),
		client:  opts.HTTPClient,
		devices: opts.Devices,
	}
	if opts.Runner != nil {
		a.mixer = sound.NewMixer(opts.Runner, cfg.Sound)
	}
	if a.client == nil {
		a.client = http.DefaultClient
	}
	if a.devices == nil {
		a.devices = sound.ListDevices
	}
	if opts.Sleep != nil {
		a.keys.Sleep = opts.Sleep
		a.mouse.Sleep = opts.Sleep
	}

	return a, nil
}

// Config returns the configuration the Automator was built with
func (a *Automator) Config() *config.Config {
	return a.cfg
}

// KeyDelay is the configured pause between successive key events
func (a *Automator) KeyDelay() time.Duration {
	return a.cfg.Keyboard.Delay()
}

// KeyHold is the configured time keys stay down in a press
func (a *Automator) KeyHold() time.Duration {
	return a.cfg.Keyboard.Duration()
}

// ClickHold is the configured time a mouse button stays down in a click
func (a *Automator) ClickHold() time.Duration {
	return a.cfg.Mouse.Click()
}

// MouseGetPosition returns the pointer position
func (a *Automator) MouseGetPosition() mouse.Point {
	return a.mouse.Position()
}

// MouseSetPosition moves the pointer to (x, y), or by (x, y) if relative
func (a *Automator) MouseSetPosition(x, y float64, relative bool) {
	a.mouse.SetPosition(x, y, relative)
}

// MouseClick clicks button at the target
func (a *Automator) MouseClick(at mouse.Target, button string, hold time.Duration) error {
	return a.mouse.Click(at, button, hold)
}

// MouseDown presses button at the target
func (a *Automator) MouseDown(at mouse.Target, button string) error {
	return a.mouse.Down(at, button)
}

// MouseUp releases button at the target
func (a *Automator) MouseUp(at mouse.Target, button string) error {
	return a.mouse.Up(at, button)
}

// MouseScroll turns the wheel
func (a *Automator) MouseScroll(direction string, clicks int) error {
	return a.mouse.Scroll(direction, clicks)
}

// KeyboardPress presses keys in order, holds them and releases them in
// reverse order.
func (a *Automator) KeyboardPress(keys []string, delay, hold time.Duration) error {
	return a.keys.Press(keys, delay, hold)
}

// KeyboardDown presses keys without releasing them
func (a *Automator) KeyboardDown(keys []string, delay time.Duration) error {
	return a.keys.Down(keys, delay)
}

// KeyboardUp releases keys in reverse order
func (a *Automator) KeyboardUp(keys []string, delay time.Duration) error {
	return a.keys.Up(keys, delay)
}

// KeyboardType types text one character at a time
func (a *Automator) KeyboardType(text string, delay, hold time.Duration) error {
	return a.keys.Type(text, delay, hold)
}

// KeyboardToggles returns the lock key state
func (a *Automator) KeyboardToggles() (keyboard.Toggles, error) {
	return a.toggles.Toggles()
}

// ToggleStrategy reports how lock key state is read
func (a *Automator) ToggleStrategy() keyboard.Strategy {
	return a.toggles.Strategy()
}

// KeyboardKeys lists the symbolic key names accepted besides single letters
// and digits.
func (a *Automator) KeyboardKeys() []string {
	return a.keys.Table().Names()
}

// SoundGetVolume returns the volume in percent
func (a *Automator) SoundGetVolume() (int, error) {
	m, err := a.mixerOrErr()
	if err != nil {
		return 0, err
	}
	return m.Volume()
}

// SoundGetMute reports whether sound is muted
func (a *Automator) SoundGetMute() (bool, error) {
	m, err := a.mixerOrErr()
	if err != nil {
		return false, err
	}
	return m.Muted()
}

// SoundSetVolume sets the volume, or raises it by level when relative
func (a *Automator) SoundSetVolume(level int, relative bool) error {
	m, err := a.mixerOrErr()
	if err != nil {
		return err
	}
	return m.SetVolume(level, relative)
}

// SoundAdjustVolume changes the volume by delta percent in either direction
func (a *Automator) SoundAdjustVolume(delta int) error {
	m, err := a.mixerOrErr()
	if err != nil {
		return err
	}
	return m.AdjustVolume(delta)
}

// SoundSetMute mutes or unmutes sound
func (a *Automator) SoundSetMute(muted bool) error {
	m, err := a.mixerOrErr()
	if err != nil {
		return err
	}
	return m.SetMuted(muted)
}

// SoundDevices lists playback devices
func (a *Automator) SoundDevices() ([]sound.Device, error) {
	return a.devices()
}

func (a *Automator) mixerOrErr() (*sound.Mixer, error) {
	if a.mixer == nil {
		return nil, sound.ErrNoMixerMechanism
	}
	return a.mixer, nil
}

// DialogPrompt asks the user to choose one of buttons
func (a *Automator) DialogPrompt(message, title string, buttons []string) (string, bool, error) {
	return dialog.Prompt(message, title, buttons)
}

// DialogText shows message followed by text
func (a *Automator) DialogText(message, title, text string) error {
	return dialog.Text(message, title, text)
}

// DialogEntry asks for a line of text
func (a *Automator) DialogEntry(message, title, initial string, password bool) (string, bool, error) {
	return dialog.Entry(message, title, initial, password)
}

// DialogSelectFile asks for one or more files
func (a *Automator) DialogSelectFile(title, pattern string, save, multiple bool) ([]string, bool, error) {
	return dialog.SelectFile(title, pattern, save, multiple)
}

// DialogSelectFolder asks for a directory
func (a *Automator) DialogSelectFolder(title, initial string) (string, bool, error) {
	return dialog.SelectFolder(title, initial)
}

// WebDownloadFile saves url to path
func (a *Automator) WebDownloadFile(ctx context.Context, url, path string) error {
	return download.File(ctx, a.client, url, path)
}
