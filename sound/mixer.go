// Package sound controls the system volume through an external mixer command.
package sound

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"markestedt/autom/config"
	"markestedt/autom/platform"
)

var (
	// ErrNoMixerMechanism is returned when the mixer command is not on PATH
	ErrNoMixerMechanism = errors.New("could not find mixer command")

	// ErrVolumeParse is returned when the mixer output has no percentage
	ErrVolumeParse = errors.New("could not obtain volume from mixer")

	// ErrInvalidVolume is returned for a level outside [0, 100]
	ErrInvalidVolume = errors.New("volume must be a percentage between 0 and 100")
)

var volumePattern = regexp.MustCompile(`(\d+)%`)

// Mixer controls one fixed control of one mixer device, e.g. "Master" on
// "pulse" through amixer.
type Mixer struct {
	runner  platform.Runner
	tool    string
	device  string
	control string
}

// NewMixer creates a mixer from configuration
func NewMixer(runner platform.Runner, cfg config.SoundConfig) *Mixer {
	return &Mixer{
		runner:  runner,
		tool:    cfg.Tool,
		device:  cfg.Device,
		control: cfg.Control,
	}
}

// Volume returns the current level in percent
func (m *Mixer) Volume() (int, error) {
	out, err := m.query()
	if err != nil {
		return 0, err
	}
	match := volumePattern.FindStringSubmatch(out)
	if match == nil {
		return 0, ErrVolumeParse
	}
	level, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrVolumeParse, err)
	}
	return level, nil
}

// Muted reports whether the control is switched off
func (m *Mixer) Muted() (bool, error) {
	out, err := m.query()
	if err != nil {
		return false, err
	}
	return strings.Contains(out, "[off]"), nil
}

// SetVolume sets the level to level percent, or changes it by level percent
// when relative is set.
func (m *Mixer) SetVolume(level int, relative bool) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidVolume, level)
	}
	return m.set(formatLevel(level, relative))
}

// AdjustVolume raises or lowers the level by delta percent
func (m *Mixer) AdjustVolume(delta int) error {
	if delta < -100 || delta > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidVolume, delta)
	}
	return m.set(formatLevel(delta, true))
}

// SetMuted mutes or unmutes the control
func (m *Mixer) SetMuted(muted bool) error {
	state := "unmute"
	if muted {
		state = "mute"
	}
	return m.set("1+", state)
}

func formatLevel(level int, relative bool) string {
	abs := level
	if abs < 0 {
		abs = -abs
	}
	s := strconv.Itoa(abs) + "%"
	if relative {
		if level >= 0 {
			s += "+"
		} else {
			s += "-"
		}
	}
	return s
}

func (m *Mixer) path() (string, error) {
	path, err := m.runner.LookPath(m.tool)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoMixerMechanism, m.tool)
	}
	return path, nil
}

func (m *Mixer) query() (string, error) {
	path, err := m.path()
	if err != nil {
		return "", err
	}
	out, err := m.runner.Output(path, "-D", m.device, "sget", m.control)
	if err != nil {
		return "", fmt.Errorf("failed to query mixer: %w", err)
	}
	return string(out), nil
}

// set does not inspect the exit status beyond logging it.
func (m *Mixer) set(values ...string) error {
	path, err := m.path()
	if err != nil {
		return err
	}
	args := append([]string{"-D", m.device, "sset", m.control}, values...)
	code, err := m.runner.Run(path, args...)
	if err != nil {
		return fmt.Errorf("failed to run mixer: %w", err)
	}
	if code != 0 {
		slog.Warn("Mixer command exited with error", "tool", m.tool, "args", args, "code", code)
	}
	return nil
}
