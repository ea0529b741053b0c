package widget

import (
	"image"
	"time"

	"github.com/leighmacdonald/lilguy/internal/sprite"
)

const bubbleFrame = 100 * time.Millisecond

type BubbleState int

const (
	BubbleHidden BubbleState = iota
	BubbleOpening
	BubbleShowing
	BubbleClosing
)

// SpeechBubble grows in, shows a line of text and shrinks away again. Text
// wider than the bubble scrolls.
type SpeechBubble struct {
	art     *sprite.Library
	origin  image.Point
	state   BubbleState
	stage   int
	timer   time.Duration
	text    string
	marquee *Marquee
}

func NewSpeechBubble(art *sprite.Library, origin image.Point) *SpeechBubble {
	return &SpeechBubble{
		art:     art,
		origin:  origin,
		marquee: NewMarquee(sprite.Fit(sprite.BubbleArea().Dx())),
	}
}

func (b *SpeechBubble) State() BubbleState {
	return b.state
}

// Visible reports whether any part of the bubble is on screen.
func (b *SpeechBubble) Visible() bool {
	return b.state != BubbleHidden
}

func (b *SpeechBubble) Show(text string) {
	b.text = text
	b.marquee.Reset()

	if b.state == BubbleHidden || b.state == BubbleClosing {
		b.state = BubbleOpening
		b.timer = 0
	}
}

func (b *SpeechBubble) Hide() {
	if b.state == BubbleShowing || b.state == BubbleOpening {
		b.state = BubbleClosing
		b.timer = 0
	}
}

// Toggle shows text when the bubble is hidden or closing, hides it otherwise.
func (b *SpeechBubble) Toggle(text string) {
	if b.state == BubbleHidden || b.state == BubbleClosing {
		b.Show(text)

		return
	}

	b.Hide()
}

func (b *SpeechBubble) Update(delta time.Duration) {
	switch b.state {
	case BubbleOpening:
		b.timer += delta
		for b.timer >= bubbleFrame && b.state == BubbleOpening {
			b.timer -= bubbleFrame
			b.stage++

			if b.stage >= sprite.BubbleSize-1 {
				b.stage = sprite.BubbleSize - 1
				b.state = BubbleShowing
				b.timer = 0
			}
		}
	case BubbleClosing:
		b.timer += delta
		for b.timer >= bubbleFrame && b.state == BubbleClosing {
			b.timer -= bubbleFrame
			b.stage--

			if b.stage <= 0 {
				b.stage = 0
				b.state = BubbleHidden
				b.timer = 0
			}
		}
	case BubbleShowing:
		b.marquee.Update(delta, b.text)
	case BubbleHidden:
	}
}

func (b *SpeechBubble) Render(frame *image.RGBA) {
	if b.state == BubbleHidden {
		return
	}

	sprite.Paste(frame, b.art.Bubble(b.stage), b.origin)

	if b.state != BubbleShowing {
		return
	}

	area := sprite.BubbleArea().Add(b.origin)
	sprite.CenteredText(frame, area, area.Min.Y, b.marquee.View(b.text), sprite.TextDark)
}
