package sprite

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// LineHeight is the height of one line of text in pixels.
	LineHeight = 13
	// CharWidth is the advance of every glyph; the face is monospaced.
	CharWidth = 7
)

var face = basicfont.Face7x13

// Text draws s with its top left corner at (x, y).
func Text(dst draw.Image, x int, y int, s string, c color.Color) {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	drawer.DrawString(s)
}

// CenteredText draws s horizontally centered inside r.
func CenteredText(dst draw.Image, r image.Rectangle, y int, s string, c color.Color) {
	Text(dst, r.Min.X+(r.Dx()-TextWidth(s))/2, y, s, c)
}

// TextWidth is the rendered width of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// Fit returns how many characters of text fit in width pixels.
func Fit(width int) int {
	return max(width/CharWidth, 0)
}

// Truncate shortens s to at most chars characters, marking the cut with "..".
func Truncate(s string, chars int) string {
	runes := []rune(s)
	if len(runes) <= chars {
		return s
	}

	if chars <= 2 {
		return string(runes[:max(chars, 0)])
	}

	return string(runes[:chars-2]) + ".."
}

// Wrap breaks s into lines no wider than width pixels. Words longer than a
// line are split. Explicit newlines are kept.
func Wrap(s string, width int) []string {
	limit := max(Fit(width), 1)

	var lines []string

	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")

			continue
		}

		line := ""

		for _, word := range words {
			for len([]rune(word)) > limit {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}

				runes := []rune(word)
				lines = append(lines, string(runes[:limit]))
				word = string(runes[limit:])
			}

			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) <= limit:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}

		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
