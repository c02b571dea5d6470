// Package host builds an Automator on the machine's real input devices. It is
// the only package that links the cgo input backend.
package host

import (
	"markestedt/autom/autom"
	"markestedt/autom/config"
	"markestedt/autom/platform"
	"markestedt/autom/platform/robot"
)

// New builds an Automator on the host's input devices, native key state
// reader and command runner.
func New(cfg *config.Config) (*autom.Automator, error) {
	runner := platform.NewRunner()
	return autom.New(autom.Options{
		Config:   cfg,
		Keyboard: robot.NewKeyboard(runner),
		Mouse:    robot.NewMouse(),
		KeyState: platform.NewKeyStateReader(),
		Runner:   runner,
	})
}
