package mouse

import (
	"fmt"
	"log/slog"
	"time"

	"markestedt/autom/platform"
)

// Point is a position in screen pixels
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Target selects where a button event happens. Axes that are not set take
// the pointer's current coordinate, so the zero Target means "here".
type Target struct {
	X, Y       int
	HasX, HasY bool
}

// At targets the absolute position (x, y)
func At(x, y int) Target {
	return Target{X: x, Y: y, HasX: true, HasY: true}
}

func (t Target) resolve(current Point) Point {
	p := current
	if t.HasX {
		p.X = t.X
	}
	if t.HasY {
		p.Y = t.Y
	}
	return p
}

// Controller drives a platform mouse
type Controller struct {
	m platform.Mouse

	// Sleep is used for click holds; time.Sleep unless replaced.
	Sleep func(time.Duration)
}

// NewController creates a controller over m
func NewController(m platform.Mouse) *Controller {
	return &Controller{m: m, Sleep: time.Sleep}
}

// Position returns the current pointer position
func (c *Controller) Position() Point {
	x, y := c.m.Position()
	return Point{X: x, Y: y}
}

// SetPosition moves the pointer to (x, y), or by (x, y) when relative is set.
// Fractional coordinates are truncated toward zero.
func (c *Controller) SetPosition(x, y float64, relative bool) {
	if relative {
		cur := c.Position()
		x, y = float64(cur.X)+x, float64(cur.Y)+y
	}
	c.m.Move(int(x), int(y))
}

// Click presses button at the target, holds it for hold and releases it
func (c *Controller) Click(at Target, button string, hold time.Duration) error {
	b, err := ParseButton(button)
	if err != nil {
		return err
	}
	if hold < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, hold)
	}

	p := at.resolve(c.Position())
	if err := c.m.Press(p.X, p.Y, int(b)); err != nil {
		return fmt.Errorf("failed to press %s button: %w", b, err)
	}
	c.Sleep(hold)
	if err := c.m.Release(p.X, p.Y, int(b)); err != nil {
		return fmt.Errorf("failed to release %s button: %w", b, err)
	}

	slog.Debug("Mouse click", "button", b.String(), "x", p.X, "y", p.Y, "hold", hold)
	return nil
}

// Down presses and holds button at the target
func (c *Controller) Down(at Target, button string) error {
	b, err := ParseButton(button)
	if err != nil {
		return err
	}
	p := at.resolve(c.Position())
	if err := c.m.Press(p.X, p.Y, int(b)); err != nil {
		return fmt.Errorf("failed to press %s button: %w", b, err)
	}
	return nil
}

// Up releases button at the target
func (c *Controller) Up(at Target, button string) error {
	b, err := ParseButton(button)
	if err != nil {
		return err
	}
	p := at.resolve(c.Position())
	if err := c.m.Release(p.X, p.Y, int(b)); err != nil {
		return fmt.Errorf("failed to release %s button: %w", b, err)
	}
	return nil
}

// Scroll turns the wheel clicks notches in direction ("up", "down", "left"
// or "right") at the current position.
func (c *Controller) Scroll(direction string, clicks int) error {
	button := "scroll_" + direction
	if _, err := ParseButton(button); err != nil {
		return fmt.Errorf("%w: unknown scroll direction %q", ErrInvalidButton, direction)
	}
	if clicks < 0 {
		return fmt.Errorf("scroll clicks must not be negative: %d", clicks)
	}
	for i := 0; i < clicks; i++ {
		if err := c.Click(Target{}, button, 0); err != nil {
			return err
		}
	}
	return nil
}
