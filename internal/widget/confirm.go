package widget

import (
	"image"

	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/sprite"
)

type Choice int

const (
	Undecided Choice = iota
	Confirmed
	Cancelled
)

// Confirm is a modal OK/Cancel dialog. Left and Right pick a button, A
// presses it and B cancels.
type Confirm struct {
	Message string
	OK      string
	Cancel  string
	ok      bool
}

func NewConfirm(message string) *Confirm {
	return &Confirm{Message: message, OK: "OK", Cancel: "Cancel"}
}

// Reset sets the message and selects Cancel.
func (c *Confirm) Reset(message string) {
	c.Message = message
	c.ok = false
}

func (c *Confirm) OKSelected() bool {
	return c.ok
}

func (c *Confirm) HandleInput(evt input.Event) Choice {
	if !evt.Pressed {
		return Undecided
	}

	switch evt.Kind {
	case input.Left:
		c.ok = true
	case input.Right:
		c.ok = false
	case input.ButtonA:
		if c.ok {
			return Confirmed
		}

		return Cancelled
	case input.ButtonB:
		return Cancelled
	case input.Up, input.Down, input.ButtonC, input.Quit:
	}

	return Undecided
}

func (c *Confirm) Render(frame *image.RGBA, area image.Rectangle) {
	sprite.Box(frame, area, sprite.White, sprite.TextDark)

	lines := sprite.Wrap(c.Message, area.Dx()-6)
	for i, line := range lines[:min(len(lines), 3)] {
		sprite.CenteredText(frame, area, area.Min.Y+3+i*sprite.LineHeight, line, sprite.TextDark)
	}

	half := area.Dx() / 2
	buttonY := area.Max.Y - sprite.LineHeight - 5
	Button(frame, image.Rect(area.Min.X+4, buttonY, area.Min.X+half-2, buttonY+sprite.LineHeight+2), c.OK, c.ok)
	Button(frame, image.Rect(area.Min.X+half+2, buttonY, area.Max.X-4, buttonY+sprite.LineHeight+2), c.Cancel, !c.ok)
}

// Button draws a labelled button, filled when selected.
func Button(frame *image.RGBA, area image.Rectangle, label string, selected bool) {
	if selected {
		sprite.Box(frame, area, sprite.BlueHighlight, sprite.TextDark)
		sprite.CenteredText(frame, area, area.Min.Y+1, label, sprite.White)

		return
	}

	sprite.Box(frame, area, sprite.White, sprite.CheckboxInactive)
	sprite.CenteredText(frame, area, area.Min.Y+1, label, sprite.TextDark)
}
