// Package mouse moves the pointer and drives timed button presses through a
// platform mouse.
package mouse

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"markestedt/autom/platform"
)

var (
	// ErrInvalidButton is returned for an unknown button name
	ErrInvalidButton = errors.New("invalid mouse button")

	// ErrInvalidDuration is returned for a negative click duration
	ErrInvalidDuration = errors.New("click duration must not be negative")
)

// Button is a mouse button, numbered the way X11 numbers them
type Button int

const (
	ButtonLeft        Button = platform.ButtonLeft
	ButtonMiddle      Button = platform.ButtonMiddle
	ButtonRight       Button = platform.ButtonRight
	ButtonScrollUp    Button = platform.ButtonScrollUp
	ButtonScrollDown  Button = platform.ButtonScrollDown
	ButtonScrollLeft  Button = platform.ButtonScrollLeft
	ButtonScrollRight Button = platform.ButtonScrollRight
)

var buttonNames = map[string]Button{
	"left":         ButtonLeft,
	"middle":       ButtonMiddle,
	"right":        ButtonRight,
	"scroll_up":    ButtonScrollUp,
	"scroll_down":  ButtonScrollDown,
	"scroll_left":  ButtonScrollLeft,
	"scroll_right": ButtonScrollRight,
}

// ParseButton maps a button name such as "left" or "scroll_up" to its Button
func ParseButton(name string) (Button, error) {
	if b, ok := buttonNames[name]; ok {
		return b, nil
	}
	return 0, fmt.Errorf("%w %q: must be one of %s", ErrInvalidButton, name, strings.Join(ButtonNames(), ", "))
}

// ButtonNames returns the accepted button names in sorted order
func ButtonNames() []string {
	names := make([]string, 0, len(buttonNames))
	for name := range buttonNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b Button) String() string {
	for name, v := range buttonNames {
		if v == b {
			return name
		}
	}
	return fmt.Sprintf("Button(%d)", int(b))
}
