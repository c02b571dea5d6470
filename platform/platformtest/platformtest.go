// Package platformtest provides recording fakes of the platform primitives.
package platformtest

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"markestedt/autom/platform"
)

// Event is one recorded primitive call or sleep.
type Event struct {
	Op    string // "press", "release", "move", "sleep"
	Key   platform.Key
	X, Y  int
	Btn   int
	Sleep time.Duration
}

func (e Event) String() string {
	switch e.Op {
	case "sleep":
		return fmt.Sprintf("sleep(%s)", e.Sleep)
	case "move":
		return fmt.Sprintf("move(%d,%d)", e.X, e.Y)
	}
	if e.Key != "" {
		return fmt.Sprintf("%s(%s)", e.Op, e.Key)
	}
	return fmt.Sprintf("%s(%d,%d,%d)", e.Op, e.X, e.Y, e.Btn)
}

// Recorder collects events from fakes that share it, in call order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Sleep records a sleep instead of blocking
func (r *Recorder) Sleep(d time.Duration) {
	r.add(Event{Op: "sleep", Sleep: d})
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Trace renders the events as a compact string, e.g. "press(ctrl) sleep(10ms)".
func (r *Recorder) Trace() string {
	events := r.Events()
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// Ops returns the events with the given op
func (r *Recorder) Ops(op string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Op == op {
			out = append(out, e)
		}
	}
	return out
}

// Keyboard is a fake platform.Keyboard
type Keyboard struct {
	*Recorder
	// FailOn makes PressKey return an error for that key.
	FailOn platform.Key
	// FailReleaseOn makes ReleaseKey return an error for that key.
	FailReleaseOn platform.Key
}

// NewKeyboard creates a fake keyboard with its own recorder
func NewKeyboard() *Keyboard {
	return &Keyboard{Recorder: &Recorder{}}
}

func (k *Keyboard) PressKey(key platform.Key) error {
	if k.FailOn != "" && key == k.FailOn {
		return fmt.Errorf("unknown key code %q", key)
	}
	k.add(Event{Op: "press", Key: key})
	return nil
}

func (k *Keyboard) ReleaseKey(key platform.Key) error {
	if k.FailReleaseOn != "" && key == k.FailReleaseOn {
		return fmt.Errorf("unknown key code %q", key)
	}
	k.add(Event{Op: "release", Key: key})
	return nil
}

// Mouse is a fake platform.Mouse whose position only changes on Move
type Mouse struct {
	*Recorder
	X, Y int
}

// NewMouse creates a fake mouse at (x, y)
func NewMouse(x, y int) *Mouse {
	return &Mouse{Recorder: &Recorder{}, X: x, Y: y}
}

func (m *Mouse) Position() (int, int) {
	return m.X, m.Y
}

func (m *Mouse) Move(x, y int) {
	m.X, m.Y = x, y
	m.add(Event{Op: "move", X: x, Y: y})
}

func (m *Mouse) Press(x, y, button int) error {
	m.add(Event{Op: "press", X: x, Y: y, Btn: button})
	return nil
}

func (m *Mouse) Release(x, y, button int) error {
	m.add(Event{Op: "release", X: x, Y: y, Btn: button})
	return nil
}

// KeyState is a fake platform.KeyStateReader
type KeyState map[int]int16

func (k KeyState) KeyState(vk int) int16 {
	return k[vk]
}

// Runner is a fake platform.Runner. Tools lists the commands present on PATH;
// Outputs maps a command line ("amixer -D pulse sget Master") to its output.
type Runner struct {
	mu       sync.Mutex
	Tools    map[string]string
	Outputs  map[string]string
	ExitCode map[string]int
	Calls    []string
}

// NewRunner creates a fake runner where each tool resolves to /usr/bin/<tool>
func NewRunner(tools ...string) *Runner {
	r := &Runner{
		Tools:    make(map[string]string),
		Outputs:  make(map[string]string),
		ExitCode: make(map[string]int),
	}
	for _, t := range tools {
		r.Tools[t] = "/usr/bin/" + t
	}
	return r
}

func (r *Runner) LookPath(file string) (string, error) {
	if p, ok := r.Tools[file]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

func (r *Runner) Output(name string, args ...string) ([]byte, error) {
	line := r.record(name, args)
	if code := r.ExitCode[line]; code != 0 {
		return nil, fmt.Errorf("exit status %d", code)
	}
	return []byte(r.Outputs[line]), nil
}

func (r *Runner) Run(name string, args ...string) (int, error) {
	line := r.record(name, args)
	return r.ExitCode[line], nil
}

func (r *Runner) record(name string, args []string) string {
	line := strings.Join(append([]string{name}, args...), " ")
	r.mu.Lock()
	r.Calls = append(r.Calls, line)
	r.mu.Unlock()
	return line
}
