package widget

import "time"

const (
	MarqueeStep = 150 * time.Millisecond
	marqueeGap  = "   "
)

// Marquee scrolls text that is too long for its slot one character per
// step.
type Marquee struct {
	Width  int
	offset int
	timer  time.Duration
}

func NewMarquee(width int) *Marquee {
	return &Marquee{Width: width}
}

func (m *Marquee) Reset() {
	m.offset = 0
	m.timer = 0
}

// Update advances the scroll when text does not fit.
func (m *Marquee) Update(delta time.Duration, text string) {
	length := len([]rune(text))
	if length <= m.Width {
		m.Reset()

		return
	}

	m.timer += delta
	for m.timer >= MarqueeStep {
		m.timer -= MarqueeStep
		m.offset = (m.offset + 1) % (length + len(marqueeGap))
	}
}

// View returns the visible window of text.
func (m *Marquee) View(text string) string {
	runes := []rune(text)
	if len(runes) <= m.Width {
		return text
	}

	loop := []rune(text + marqueeGap + text)
	start := m.offset % (len(runes) + len(marqueeGap))

	return string(loop[start : start+m.Width])
}
