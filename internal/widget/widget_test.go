package widget_test

import (
	"image"
	"testing"
	"time"

	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/widget"
	"github.com/stretchr/testify/require"
)

func press(kinds ...input.Kind) []input.Event {
	events := make([]input.Event, 0, len(kinds))
	for _, kind := range kinds {
		events = append(events, input.Press(kind))
	}

	return events
}

func TestCursorHelpers(t *testing.T) {
	require.Equal(t, 4, widget.Wrap(-1, 5))
	require.Equal(t, 0, widget.Wrap(5, 5))
	require.Equal(t, 0, widget.Wrap(3, 0))
	require.Equal(t, 6, widget.Clamp(9, 1, 6))
	require.Equal(t, 1, widget.Clamp(-2, 6, 1))

	require.Equal(t, 0, widget.Scroll(0, 3, 7, 5))
	require.Equal(t, 3, widget.Scroll(0, 9, 7, 12))
	require.Equal(t, 2, widget.Scroll(5, 2, 7, 12))
	require.Equal(t, 5, widget.Scroll(9, 11, 7, 12))
}

func TestTextInput(t *testing.T) {
	field := widget.NewTextInput(4, "Name:")
	_, done := field.HandleInput(input.Press(input.ButtonA))
	require.False(t, done, "inactive input ignores events")

	field.Activate("Wa")
	require.Equal(t, 'A', field.Current())

	for _, evt := range press(input.Left, input.ButtonA) {
		field.HandleInput(evt)
	}

	require.Equal(t, "Wa-", field.Value())

	for _, evt := range press(input.Down, input.ButtonA, input.ButtonA) {
		field.HandleInput(evt)
	}

	require.Equal(t, "Wa-A", field.Value(), "wrapped to upper case, length capped")

	for _, evt := range press(input.Down, input.Down, input.Right) {
		field.HandleInput(evt)
	}

	require.Equal(t, '0', field.Current())

	for _, evt := range press(input.Up, input.Up) {
		field.HandleInput(evt)
	}

	require.Equal(t, 'a', field.Current())

	field.HandleInput(input.Press(input.ButtonB))
	field.HandleInput(input.Release(input.ButtonB))
	require.Equal(t, "Wa-", field.Value())

	value, done := field.HandleInput(input.Press(input.ButtonC))
	require.True(t, done)
	require.Equal(t, "Wa-", value)
	require.False(t, field.Active())
}

func TestTextInputRender(t *testing.T) {
	field := widget.NewTextInput(20, "Name:")
	frame := image.NewRGBA(image.Rect(0, 0, 128, 128))

	field.Render(frame, image.Rect(4, 60, 124, 124))
	require.Equal(t, uint8(0), frame.RGBAAt(4, 60).A, "inactive input draws nothing")

	field.Activate("Meditate every morning")
	field.Update(600 * time.Millisecond)
	field.Render(frame, image.Rect(4, 60, 124, 124))
	require.Equal(t, sprite.TextDark, frame.RGBAAt(4, 60))
}

func TestMarquee(t *testing.T) {
	marquee := widget.NewMarquee(5)
	require.Equal(t, "Walk", marquee.View("Walk"))

	text := "Meditate"
	require.Equal(t, "Medit", marquee.View(text))

	marquee.Update(0, text)
	require.Equal(t, "Medit", marquee.View(text))

	marquee.Update(2*widget.MarqueeStep, text)
	require.Equal(t, "ditat", marquee.View(text))

	marquee.Update(9*widget.MarqueeStep, text)
	require.Equal(t, "Medit", marquee.View(text), "scroll loops after text and gap")
}

func TestSpeechBubble(t *testing.T) {
	bubble := widget.NewSpeechBubble(sprite.NewLibrary(""), image.Pt(8, 4))
	require.False(t, bubble.Visible())

	bubble.Toggle("Hello World")
	require.Equal(t, widget.BubbleOpening, bubble.State())

	bubble.Update(0)
	require.Equal(t, widget.BubbleOpening, bubble.State())

	bubble.Update(400 * time.Millisecond)
	require.Equal(t, widget.BubbleShowing, bubble.State())

	frame := image.NewRGBA(image.Rect(0, 0, 128, 128))
	bubble.Render(frame)

	bubble.Toggle("")
	require.Equal(t, widget.BubbleClosing, bubble.State())

	bubble.Update(100 * time.Millisecond)
	require.True(t, bubble.Visible())

	bubble.Update(time.Second)
	require.False(t, bubble.Visible())
}

func TestConfirm(t *testing.T) {
	dialog := widget.NewConfirm("Delete Walk?")
	require.Equal(t, widget.Cancelled, dialog.HandleInput(input.Press(input.ButtonA)), "cancel is selected first")

	dialog.Reset("Delete Walk?")
	require.Equal(t, widget.Undecided, dialog.HandleInput(input.Press(input.Left)))
	require.True(t, dialog.OKSelected())
	require.Equal(t, widget.Undecided, dialog.HandleInput(input.Release(input.ButtonA)))
	require.Equal(t, widget.Confirmed, dialog.HandleInput(input.Press(input.ButtonA)))

	require.Equal(t, widget.Cancelled, dialog.HandleInput(input.Press(input.ButtonB)))

	frame := image.NewRGBA(image.Rect(0, 0, 128, 128))
	dialog.Render(frame, image.Rect(8, 30, 120, 98))
	require.Equal(t, sprite.TextDark, frame.RGBAAt(8, 30))
}
