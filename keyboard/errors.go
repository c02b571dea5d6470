package keyboard

import "errors"

var (
	// ErrInvalidKey is returned when a symbolic key name cannot be resolved
	ErrInvalidKey = errors.New("invalid key")

	// ErrNoToggleQueryMechanism is returned when neither a native key state
	// query nor the display server query tool is available
	ErrNoToggleQueryMechanism = errors.New("no toggle key query mechanism available")

	// ErrToggleQueryParse is returned when the display server output carries no LED mask
	ErrToggleQueryParse = errors.New("could not obtain toggle states from display server")
)
