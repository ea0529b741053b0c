package screens

import (
	"image"
	"strings"
	"time"

	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/widget"
)

const (
	aboutTextWidth = sprite.Width - 12
	scrollbarX     = sprite.Width - 5
)

// AboutScreen shows scrollable help text.
type AboutScreen struct {
	lines  []string
	offset int
}

func NewAboutScreen(deps Deps) *AboutScreen {
	text := deps.About
	if strings.TrimSpace(text) == "" {
		text = defaultAbout
	}

	return &AboutScreen{lines: wrapParagraphs(text, aboutTextWidth)}
}

// wrapParagraphs wraps every line of text on its own, keeping blank lines.
func wrapParagraphs(text string, width int) []string {
	var lines []string

	for _, paragraph := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			lines = append(lines, "")

			continue
		}

		lines = append(lines, sprite.Wrap(paragraph, width)...)
	}

	return lines
}

func (s *AboutScreen) Links() []screen.Name {
	return []screen.Name{Settings}
}

func (s *AboutScreen) Reload() {
	s.offset = 0
}

func (s *AboutScreen) Offset() int {
	return s.offset
}

func (s *AboutScreen) maxOffset() int {
	return max(len(s.lines)-visibleRows, 0)
}

func (s *AboutScreen) HandleInput(evt input.Event) screen.Name {
	if !evt.Pressed {
		return screen.Stay
	}

	switch evt.Kind {
	case input.Up, input.Down:
		s.offset = widget.Clamp(s.offset+evt.Kind.Step(), 0, s.maxOffset())
	case input.Left, input.ButtonB:
		return Settings
	case input.Right, input.ButtonA, input.ButtonC, input.Quit:
	}

	return screen.Stay
}

func (s *AboutScreen) Update(time.Duration) {}

func (s *AboutScreen) Render(frame *image.RGBA) {
	blank(frame)
	titleBar(frame, "About")

	for row := range visibleRows {
		index := s.offset + row
		if index >= len(s.lines) {
			break
		}

		sprite.Text(frame, 4, listTop+row*rowHeight, s.lines[index], sprite.TextDark)
	}

	hint(frame, "^v:scroll <:back")

	if s.maxOffset() == 0 {
		return
	}

	track := image.Rect(scrollbarX, listTop, scrollbarX+3, hintY-3)
	sprite.Rect(frame, track, sprite.SelectGray)

	thumb := max(track.Dy()*visibleRows/len(s.lines), 4)
	top := track.Min.Y + (track.Dy()-thumb)*s.offset/s.maxOffset()
	sprite.Rect(frame, image.Rect(track.Min.X, top, track.Max.X, top+thumb), sprite.PanelGray)
}
