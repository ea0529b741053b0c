package widget

import (
	"image"
	"slices"
	"time"

	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/sprite"
)

// Charset is the alphabet of the character picker.
const Charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz 0123456789._-"

const blinkPeriod = 500 * time.Millisecond

// sections are the starting indices of the upper case, lower case, space,
// digit and symbol groups of Charset.
var sections = []int{0, 26, 52, 53, 63}

// TextInput enters text with a joystick: Left/Right pick a character, Up/Down
// jump between character groups, A appends, B deletes and C commits.
type TextInput struct {
	MaxLength int
	Prompt    string
	value     []rune
	index     int
	active    bool
	cursor    bool
	blink     time.Duration
}

func NewTextInput(maxLength int, prompt string) *TextInput {
	return &TextInput{MaxLength: maxLength, Prompt: prompt}
}

// Activate starts editing with value preloaded.
func (t *TextInput) Activate(value string) {
	runes := []rune(value)
	t.value = runes[:min(len(runes), t.MaxLength)]
	t.index = 0
	t.active = true
	t.cursor = true
	t.blink = 0
}

func (t *TextInput) Deactivate() {
	t.active = false
}

func (t *TextInput) Active() bool {
	return t.active
}

func (t *TextInput) Value() string {
	return string(t.value)
}

// Current is the character under the picker.
func (t *TextInput) Current() rune {
	return rune(Charset[t.index])
}

func (t *TextInput) section() int {
	current := 0

	for i, start := range sections {
		if t.index >= start {
			current = i
		}
	}

	return current
}

// HandleInput returns the entered text and true once C commits it.
func (t *TextInput) HandleInput(evt input.Event) (string, bool) {
	if !t.active || !evt.Pressed {
		return "", false
	}

	switch evt.Kind {
	case input.Right, input.Left:
		t.index = Wrap(t.index+evt.Kind.Step(), len(Charset))
	case input.Down:
		t.index = sections[Wrap(t.section()+1, len(sections))]
	case input.Up:
		t.index = sections[Wrap(t.section()-1, len(sections))]
	case input.ButtonA:
		if len(t.value) < t.MaxLength {
			t.value = append(t.value, t.Current())
		}
	case input.ButtonB:
		if len(t.value) > 0 {
			t.value = slices.Delete(t.value, len(t.value)-1, len(t.value))
		}
	case input.ButtonC:
		t.active = false

		return string(t.value), true
	case input.Quit:
	}

	return "", false
}

func (t *TextInput) Update(delta time.Duration) {
	if !t.active {
		return
	}

	t.blink += delta
	if t.blink >= blinkPeriod {
		t.blink = 0
		t.cursor = !t.cursor
	}
}

// Render draws the input as a popup panel occupying area.
func (t *TextInput) Render(frame *image.RGBA, area image.Rectangle) {
	if !t.active {
		return
	}

	sprite.Box(frame, area, sprite.White, sprite.TextDark)
	sprite.Text(frame, area.Min.X+3, area.Min.Y+2, t.Prompt, sprite.TextMuted)

	field := image.Rect(area.Min.X+3, area.Min.Y+16, area.Max.X-3, area.Min.Y+16+sprite.LineHeight+2)
	sprite.Box(frame, field, sprite.White, sprite.CheckboxInactive)

	// Keep the tail of long values visible.
	shown := t.value
	if room := sprite.Fit(field.Dx()-4) - 1; len(shown) > room {
		shown = shown[len(shown)-room:]
	}

	text := string(shown)
	if t.cursor {
		text += "_"
	}

	sprite.Text(frame, field.Min.X+2, field.Min.Y+1, text, sprite.TextDark)

	picker := "< " + string(t.Current()) + " >"
	if t.Current() == ' ' {
		picker = "< spc >"
	}

	sprite.CenteredText(frame, area, field.Max.Y+3, picker, sprite.BlueHighlight)
}
