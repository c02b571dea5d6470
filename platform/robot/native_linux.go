//go:build linux

package robot

import (
	"fmt"

	"markestedt/autom/platform"
)

// xdotoolKeys are injected through xdotool, whose keysym table covers the
// lock keys robotgo's X11 backend leaves out
var xdotoolKeys = map[platform.Key]string{
	platform.KeyScrollLock: "Scroll_Lock",
}

func nativeKeys(runner platform.Runner) map[platform.Key]injector {
	keys := make(map[platform.Key]injector, len(xdotoolKeys))
	for key, keysym := range xdotoolKeys {
		keys[key] = func(down bool) error {
			return xdotool(runner, keysym, down)
		}
	}
	return keys
}

func xdotool(runner platform.Runner, keysym string, down bool) error {
	path, err := runner.LookPath("xdotool")
	if err != nil {
		return fmt.Errorf("%w: %s needs xdotool", ErrUnsupportedKey, keysym)
	}
	action := "keyup"
	if down {
		action = "keydown"
	}
	code, err := runner.Run(path, action, keysym)
	if err != nil {
		return fmt.Errorf("xdotool %s %s: %w", action, keysym, err)
	}
	if code != 0 {
		return fmt.Errorf("xdotool %s %s exited with status %d", action, keysym, code)
	}
	return nil
}
