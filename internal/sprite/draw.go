// Package sprite draws everything that ends up on the 128x128 panel: shapes,
// bitmap text and the pet artwork.
package sprite

import (
	"image"
	"image/color"
	"image/draw"
)

var (
	Black            = color.RGBA{A: 255}
	White            = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	TextDark         = color.RGBA{R: 50, G: 60, B: 57, A: 255}
	TextMuted        = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	BlueHighlight    = color.RGBA{R: 91, G: 110, B: 225, A: 255}
	CheckboxInactive = color.RGBA{R: 155, G: 173, B: 183, A: 255}
	PanelGray        = color.RGBA{R: 100, G: 100, B: 100, A: 255}
	SelectGray       = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	Green            = color.RGBA{G: 128, A: 255}
	Red              = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	SkyTop           = color.RGBA{R: 99, G: 155, B: 255, A: 255}
	SkyBottom        = color.RGBA{R: 203, G: 219, B: 252, A: 255}
	Grass            = color.RGBA{R: 106, G: 190, B: 48, A: 255}
	GrassDark        = color.RGBA{R: 75, G: 105, B: 47, A: 255}
	Body             = color.RGBA{R: 251, G: 242, B: 54, A: 255}
	BodyShade        = color.RGBA{R: 223, G: 173, B: 40, A: 255}
	Blush            = color.RGBA{R: 217, G: 87, B: 99, A: 255}
)

// Fill paints the whole image.
func Fill(dst draw.Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Rect fills r.
func Rect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// Outline draws a one pixel border inside r.
func Outline(dst draw.Image, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}

	HLine(dst, r.Min.X, r.Max.X-1, r.Min.Y, c)
	HLine(dst, r.Min.X, r.Max.X-1, r.Max.Y-1, c)
	VLine(dst, r.Min.X, r.Min.Y, r.Max.Y-1, c)
	VLine(dst, r.Max.X-1, r.Min.Y, r.Max.Y-1, c)
}

// Box is a filled rectangle with a border.
func Box(dst draw.Image, r image.Rectangle, fill color.Color, border color.Color) {
	Rect(dst, r, fill)
	Outline(dst, r, border)
}

func HLine(dst draw.Image, x0 int, x1 int, y int, c color.Color) {
	for x := x0; x <= x1; x++ {
		set(dst, x, y, c)
	}
}

func VLine(dst draw.Image, x int, y0 int, y1 int, c color.Color) {
	for y := y0; y <= y1; y++ {
		set(dst, x, y, c)
	}
}

// FillEllipse fills the ellipse centered on (cx, cy) with radii rx and ry.
func FillEllipse(dst draw.Image, cx int, cy int, rx int, ry int, c color.Color) {
	if rx <= 0 || ry <= 0 {
		return
	}

	for y := -ry; y <= ry; y++ {
		for x := -rx; x <= rx; x++ {
			if x*x*ry*ry+y*y*rx*rx <= rx*rx*ry*ry {
				set(dst, cx+x, cy+y, c)
			}
		}
	}
}

// Arc draws the lower (smile) or upper (frown) half outline of an ellipse.
func Arc(dst draw.Image, cx int, cy int, rx int, ry int, lower bool, c color.Color) {
	for x := -rx; x <= rx; x++ {
		// y = ry * sqrt(1 - x²/rx²), integer form
		y := 0
		for (y+1)*(y+1)*rx*rx <= ry*ry*(rx*rx-x*x) {
			y++
		}

		if lower {
			set(dst, cx+x, cy+y, c)
		} else {
			set(dst, cx+x, cy-y, c)
		}
	}
}

// Paste draws src over dst with its top left corner at at.
func Paste(dst draw.Image, src image.Image, at image.Point) {
	if src == nil {
		return
	}

	bounds := src.Bounds()
	draw.Draw(dst, bounds.Sub(bounds.Min).Add(at), src, bounds.Min, draw.Over)
}

// Bar draws a horizontal progress bar filled to percent (0-100).
func Bar(dst draw.Image, r image.Rectangle, percent int, fill color.Color) {
	Box(dst, r, White, TextDark)

	inner := r.Inset(1)
	width := inner.Dx() * min(max(percent, 0), 100) / 100
	Rect(dst, image.Rect(inner.Min.X, inner.Min.Y, inner.Min.X+width, inner.Max.Y), fill)
}

func set(dst draw.Image, x int, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(dst.Bounds()) {
		return
	}

	dst.Set(x, y, c)
}
