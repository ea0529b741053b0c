// Package display holds the frame sink contract and the sinks that do not
// need a terminal.
package display

import (
	"errors"
	"image"
	"image/draw"
)

var ErrClosed = errors.New("display closed")

// Sink is a fixed size RGB surface. Buffer returns the frame to draw on,
// Present makes the frame visible.
type Sink interface {
	Buffer() *image.RGBA
	Present(frame *image.RGBA) error
	Close() error
}

// Captioner is implemented by sinks able to show a status line next to the
// frame.
type Captioner interface {
	Caption(text string)
}

// Memory keeps the last presented frame in memory.
type Memory struct {
	back     *image.RGBA
	front    *image.RGBA
	presents int
	caption  string
	closed   bool
}

func NewMemory(width int, height int) *Memory {
	rect := image.Rect(0, 0, width, height)

	return &Memory{back: image.NewRGBA(rect), front: image.NewRGBA(rect)}
}

func (m *Memory) Buffer() *image.RGBA {
	return m.back
}

func (m *Memory) Present(frame *image.RGBA) error {
	if m.closed {
		return ErrClosed
	}

	draw.Draw(m.front, m.front.Bounds(), frame, frame.Bounds().Min, draw.Src)
	m.presents++

	return nil
}

func (m *Memory) Caption(text string) {
	m.caption = text
}

func (m *Memory) Close() error {
	m.closed = true

	return nil
}

// Last returns the most recently presented frame.
func (m *Memory) Last() *image.RGBA {
	return m.front
}

func (m *Memory) Presents() int {
	return m.presents
}

func (m *Memory) LastCaption() string {
	return m.caption
}

// Scale upscales src by an integer factor using nearest neighbour sampling.
func Scale(src *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return src
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))

	for y := range dst.Bounds().Dy() {
		for x := range dst.Bounds().Dx() {
			dst.SetRGBA(x, y, src.RGBAAt(bounds.Min.X+x/factor, bounds.Min.Y+y/factor))
		}
	}

	return dst
}
