// Package robot implements the platform keyboard and mouse on top of robotgo.
// It links cgo, so only the host wiring imports it.
package robot

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-vgo/robotgo"

	"markestedt/autom/platform"
)

// ErrUnsupportedKey is returned for key identities the backend cannot inject.
// robotgo maps unknown names to keycode 0 and reports success, so every key
// is checked before it reaches robotgo.
var ErrUnsupportedKey = errors.New("key not supported by input backend")

// robotKeys are the multi-character names robotgo's keyboard table knows
var robotKeys = map[platform.Key]bool{
	"backspace": true, "delete": true, "enter": true, "tab": true,
	"esc": true, "escape": true, "space": true, "insert": true, "menu": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pageup": true, "pagedown": true,
	"cmd": true, "lcmd": true, "rcmd": true, "command": true,
	"alt": true, "lalt": true, "ralt": true,
	"ctrl": true, "lctrl": true, "rctrl": true, "control": true,
	"shift": true, "lshift": true, "rshift": true,
	"capslock": true, "num_lock": true, "print": true, "printscreen": true,
	"audio_mute": true, "audio_vol_down": true, "audio_vol_up": true,
}

func init() {
	for i := 1; i <= 24; i++ {
		robotKeys[platform.Key(fmt.Sprintf("f%d", i))] = true
	}
	for i := 0; i <= 9; i++ {
		robotKeys[platform.Key(fmt.Sprintf("num%d", i))] = true
	}
}

// injector presses (down) or releases a key robotgo has no name for
type injector func(down bool) error

// Keyboard implements platform.Keyboard on top of robotgo, with native
// injection for the keys robotgo lacks.
type Keyboard struct {
	native map[platform.Key]injector
}

// NewKeyboard creates a new robotgo keyboard. runner is used by backends
// that inject through an external tool.
func NewKeyboard(runner platform.Runner) *Keyboard {
	return &Keyboard{native: nativeKeys(runner)}
}

// Supports reports whether key can be injected on this platform
func (k *Keyboard) Supports(key platform.Key) bool {
	if _, ok := k.native[key]; ok {
		return true
	}
	if len(key) == 1 {
		return key[0] > ' ' && key[0] < 0x7f
	}
	return robotKeys[key]
}

// PressKey holds a key down
func (k *Keyboard) PressKey(key platform.Key) error {
	if err := k.toggle(key, true); err != nil {
		return fmt.Errorf("failed to press key %q: %w", key, err)
	}
	slog.Debug("Key down", "key", string(key))
	return nil
}

// ReleaseKey lets a held key go
func (k *Keyboard) ReleaseKey(key platform.Key) error {
	if err := k.toggle(key, false); err != nil {
		return fmt.Errorf("failed to release key %q: %w", key, err)
	}
	slog.Debug("Key up", "key", string(key))
	return nil
}

func (k *Keyboard) toggle(key platform.Key, down bool) error {
	if inject, ok := k.native[key]; ok {
		return inject(down)
	}
	if !k.Supports(key) {
		return ErrUnsupportedKey
	}
	dir := "up"
	if down {
		dir = "down"
	}
	return robotgo.KeyToggle(string(key), dir)
}

// Mouse implements platform.Mouse on top of robotgo
type Mouse struct{}

// NewMouse creates a new robotgo mouse instance
func NewMouse() *Mouse {
	return &Mouse{}
}

// Position returns the current cursor position
func (m *Mouse) Position() (int, int) {
	return robotgo.Location()
}

// Move warps the cursor to absolute screen coordinates
func (m *Mouse) Move(x, y int) {
	robotgo.Move(x, y)
}

// Press moves to (x, y) and presses button. Wheel buttons scroll one notch
// on press, matching how X11 reports them.
func (m *Mouse) Press(x, y, button int) error {
	robotgo.Move(x, y)

	switch button {
	case platform.ButtonScrollUp:
		robotgo.Scroll(0, 1)
		return nil
	case platform.ButtonScrollDown:
		robotgo.Scroll(0, -1)
		return nil
	case platform.ButtonScrollLeft:
		robotgo.Scroll(-1, 0)
		return nil
	case platform.ButtonScrollRight:
		robotgo.Scroll(1, 0)
		return nil
	}

	name, err := robotButton(button)
	if err != nil {
		return err
	}
	if err := robotgo.Toggle(name, "down"); err != nil {
		return fmt.Errorf("failed to press %s button: %w", name, err)
	}
	return nil
}

// Release moves to (x, y) and releases button. Wheel buttons have nothing to
// release.
func (m *Mouse) Release(x, y, button int) error {
	robotgo.Move(x, y)

	if button >= platform.ButtonScrollUp && button <= platform.ButtonScrollRight {
		return nil
	}

	name, err := robotButton(button)
	if err != nil {
		return err
	}
	if err := robotgo.Toggle(name, "up"); err != nil {
		return fmt.Errorf("failed to release %s button: %w", name, err)
	}
	return nil
}

func robotButton(button int) (string, error) {
	switch button {
	case platform.ButtonLeft:
		return "left", nil
	case platform.ButtonMiddle:
		return "center", nil
	case platform.ButtonRight:
		return "right", nil
	default:
		return "", fmt.Errorf("unsupported button code: %d", button)
	}
}
