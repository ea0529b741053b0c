package sprite

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	Width      = 128
	Height     = 128
	PetFrames  = 4
	BubbleSize = 5
	// artTile is the tile size of the pet sheets on disk; they are drawn at
	// twice that size.
	artTile = 64
)

var bob = [PetFrames]int{0, -1, -2, -1}

// Library hands out the artwork. PNG files found in dir replace the built-in
// drawings: background.png, body.png and face-<name>.png, the last two
// being one row of 64x64 frames.
type Library struct {
	dir    string
	images map[string]image.Image
	frames map[string][]image.Image
}

func NewLibrary(dir string) *Library {
	return &Library{dir: dir, images: map[string]image.Image{}, frames: map[string][]image.Image{}}
}

func (l *Library) image(name string, fallback func() image.Image) image.Image {
	if img, found := l.images[name]; found {
		return img
	}

	img := l.load(name)
	if img == nil {
		img = fallback()
	}

	l.images[name] = img

	return img
}

func (l *Library) animation(name string, fallback func(frame int) image.Image) []image.Image {
	if frames, found := l.frames[name]; found {
		return frames
	}

	var frames []image.Image
	if sheet := l.load(name); sheet != nil {
		frames = NewSheet(sheet, artTile, artTile).Frames(0, PetFrames, Width/artTile)
	}

	if len(frames) != PetFrames {
		frames = make([]image.Image, PetFrames)
		for frame := range PetFrames {
			frames[frame] = fallback(frame)
		}
	}

	l.frames[name] = frames

	return frames
}

func (l *Library) load(name string) image.Image {
	if l.dir == "" {
		return nil
	}

	path := filepath.Join(l.dir, name+".png")
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	img, err := LoadPNG(path)
	if err != nil {
		slog.Warn("Using built-in art", slog.String("path", path), slog.String("error", err.Error()))

		return nil
	}

	return img
}

func (l *Library) Background() image.Image {
	return l.image("background", drawBackground)
}

func (l *Library) Body() []image.Image {
	return l.animation("body", drawBody)
}

// Face returns the animation of an expression. Unknown names get the happy
// face.
func (l *Library) Face(expression string) []image.Image {
	return l.animation("face-"+expression, func(frame int) image.Image {
		return drawFace(expression, frame)
	})
}

func (l *Library) Checkbox(checked bool, highlighted bool) image.Image {
	key := "checkbox"
	if checked {
		key += "-on"
	}

	if highlighted {
		key += "-hl"
	}

	return l.image(key, func() image.Image { return drawCheckbox(checked, highlighted) })
}

func (l *Library) Pointer() image.Image {
	return l.image("pointer", drawPointer)
}

// Bubble returns the speech bubble at a growth stage, 0 being the smallest
// and BubbleSize-1 the full bubble.
func (l *Library) Bubble(stage int) image.Image {
	stage = min(max(stage, 0), BubbleSize-1)

	return l.image("bubble-"+string(rune('0'+stage)), func() image.Image { return drawBubble(stage) })
}

// BubbleArea is where text fits inside the full bubble, relative to the
// bubble image.
func BubbleArea() image.Rectangle {
	return image.Rect(6, 4, 106, 4+LineHeight)
}

func drawBackground() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))

	const horizon = 100

	for y := range horizon {
		c := SkyTop
		c.R = uint8(int(SkyTop.R) + (int(SkyBottom.R)-int(SkyTop.R))*y/horizon)
		c.G = uint8(int(SkyTop.G) + (int(SkyBottom.G)-int(SkyTop.G))*y/horizon)
		c.B = uint8(int(SkyTop.B) + (int(SkyBottom.B)-int(SkyTop.B))*y/horizon)
		HLine(img, 0, Width-1, y, c)
	}

	Rect(img, image.Rect(0, horizon, Width, Height), Grass)
	HLine(img, 0, Width-1, horizon, GrassDark)

	for x := 3; x < Width; x += 11 {
		set(img, x, horizon+6+x%5, GrassDark)
		set(img, x+1, horizon+5+x%5, GrassDark)
	}

	return img
}

func drawBody(frame int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	offset := bob[frame%PetFrames]

	FillEllipse(img, 50, 103, 8, 4, TextDark)
	FillEllipse(img, 78, 103, 8, 4, TextDark)
	FillEllipse(img, 50, 103, 7, 3, BodyShade)
	FillEllipse(img, 78, 103, 7, 3, BodyShade)

	FillEllipse(img, 64, 78+offset, 31, 27, TextDark)
	FillEllipse(img, 64, 78+offset, 30, 26, Body)
	FillEllipse(img, 64, 90+offset, 22, 12, BodyShade)
	FillEllipse(img, 64, 88+offset, 22, 12, Body)

	return img
}

func drawFace(expression string, frame int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	offset := bob[frame%PetFrames]
	eyeY := 70 + offset
	mouthY := 82 + offset
	blink := frame == 2

	eyes := func() {
		if blink {
			HLine(img, 50, 56, eyeY, TextDark)
			HLine(img, 72, 78, eyeY, TextDark)

			return
		}

		FillEllipse(img, 53, eyeY, 2, 4, TextDark)
		FillEllipse(img, 75, eyeY, 2, 4, TextDark)
		set(img, 53, eyeY-2, White)
		set(img, 75, eyeY-2, White)
	}

	blush := func() {
		FillEllipse(img, 44, mouthY-3, 4, 2, Blush)
		FillEllipse(img, 84, mouthY-3, 4, 2, Blush)
	}

	switch expression {
	case "sad":
		eyes()
		Arc(img, 64, mouthY+5, 7, 4, false, TextDark)
		FillEllipse(img, 78, eyeY+7, 1, 2, SkyTop)
	case "oh":
		eyes()
		FillEllipse(img, 64, mouthY+1, 4, 5, TextDark)
		FillEllipse(img, 64, mouthY+2, 2, 2, Blush)
	case "bruh":
		HLine(img, 49, 57, eyeY-1, TextDark)
		HLine(img, 71, 79, eyeY-1, TextDark)
		HLine(img, 51, 55, eyeY+1, TextDark)
		HLine(img, 73, 77, eyeY+1, TextDark)
		HLine(img, 58, 70, mouthY+2, TextDark)
	case "teeth-smile":
		Arc(img, 53, eyeY+2, 4, 3, false, TextDark)
		Arc(img, 75, eyeY+2, 4, 3, false, TextDark)
		Box(img, image.Rect(55, mouthY-1, 74, mouthY+6), White, TextDark)
		VLine(img, 61, mouthY, mouthY+4, TextDark)
		VLine(img, 67, mouthY, mouthY+4, TextDark)
		blush()
	case "little-smile":
		eyes()
		Arc(img, 64, mouthY, 4, 2, true, TextDark)
	default:
		eyes()
		Arc(img, 64, mouthY, 7, 5, true, TextDark)
		blush()
	}

	return img
}

func drawCheckbox(checked bool, highlighted bool) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 9, 9))

	border := CheckboxInactive
	if highlighted {
		border = BlueHighlight
	}

	Box(img, img.Bounds(), White, border)

	if checked {
		set(img, 2, 4, Green)
		set(img, 3, 5, Green)
		set(img, 4, 6, Green)
		set(img, 5, 5, Green)
		set(img, 6, 4, Green)
		set(img, 7, 3, Green)
		set(img, 3, 4, Green)
		set(img, 4, 5, Green)
		set(img, 5, 4, Green)
		set(img, 6, 3, Green)
	}

	return img
}

func drawPointer() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 5, 9))
	for col := range 5 {
		VLine(img, col, col, 8-col, TextDark)
	}

	return img
}

func drawBubble(stage int) image.Image {
	const (
		fullW = 112
		fullH = 22
		tail  = 6
	)

	img := image.NewRGBA(image.Rect(0, 0, fullW, fullH+tail))
	width := fullW * (stage + 1) / BubbleSize
	height := max(fullH*(stage+1)/BubbleSize, 4)
	left := (fullW - width) / 2

	Box(img, image.Rect(left, 0, left+width, height), White, TextDark)

	if stage == BubbleSize-1 {
		for row := range tail {
			HLine(img, fullW/2-tail+row, fullW/2, height-1+row, TextDark)
			if row < tail-1 {
				HLine(img, fullW/2-tail+row+1, fullW/2-1, height-1+row, White)
			}
		}
	}

	return img
}
