package keyboard

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"markestedt/autom/platform"
)

// Toggles is the state of the lock keys at the time of a query
type Toggles struct {
	CapsLock   bool `json:"caps_lock"`
	NumLock    bool `json:"num_lock"`
	ScrollLock bool `json:"scroll_lock"`
}

// Strategy is the mechanism a Prober uses to read toggle state
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyNative
	StrategyDisplayServer
)

func (s Strategy) String() string {
	switch s {
	case StrategyNative:
		return "native"
	case StrategyDisplayServer:
		return "display-server"
	default:
		return "none"
	}
}

var ledMaskPattern = regexp.MustCompile(`LED\s+mask:\s+(\d+)`)

// Prober reads the CapsLock, NumLock and ScrollLock state. The strategy is
// picked once at construction; nothing is cached between queries.
type Prober struct {
	strategy Strategy
	native   platform.KeyStateReader
	runner   platform.Runner
	toolPath string
}

// NewProber picks the native reader when there is one, otherwise the display
// server query tool if runner finds it on PATH.
func NewProber(native platform.KeyStateReader, runner platform.Runner, tool string) *Prober {
	p := &Prober{native: native, runner: runner}

	switch {
	case native != nil:
		p.strategy = StrategyNative
	case runner != nil && tool != "":
		if path, err := runner.LookPath(tool); err == nil {
			p.strategy = StrategyDisplayServer
			p.toolPath = path
		} else {
			slog.Debug("Toggle query tool not found", "tool", tool, "error", err)
		}
	}

	slog.Debug("Toggle prober ready", "strategy", p.strategy, "tool", p.toolPath)
	return p
}

// Strategy returns the mechanism chosen at construction
func (p *Prober) Strategy() Strategy {
	return p.strategy
}

// Toggles queries the current toggle key state
func (p *Prober) Toggles() (Toggles, error) {
	switch p.strategy {
	case StrategyNative:
		return Toggles{
			CapsLock:   p.native.KeyState(platform.VKCapital) != 0,
			NumLock:    p.native.KeyState(platform.VKNumLock) != 0,
			ScrollLock: p.native.KeyState(platform.VKScroll) != 0,
		}, nil

	case StrategyDisplayServer:
		out, err := p.runner.Output(p.toolPath, "q")
		if err != nil {
			return Toggles{}, fmt.Errorf("failed to query display server: %w", err)
		}
		return ParseLEDMask(string(out))

	default:
		return Toggles{}, ErrNoToggleQueryMechanism
	}
}

// ParseLEDMask decodes the "LED mask: <n>" line of a display server query.
// Bit 0 is CapsLock, bit 1 NumLock, bit 2 ScrollLock.
func ParseLEDMask(output string) (Toggles, error) {
	m := ledMaskPattern.FindStringSubmatch(output)
	if m == nil {
		return Toggles{}, ErrToggleQueryParse
	}
	mask, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Toggles{}, fmt.Errorf("%w: %v", ErrToggleQueryParse, err)
	}
	return Toggles{
		CapsLock:   mask&0b1 != 0,
		NumLock:    mask&0b10 != 0,
		ScrollLock: mask&0b100 != 0,
	}, nil
}
