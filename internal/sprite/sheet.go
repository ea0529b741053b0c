package sprite

import (
	"errors"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/leighmacdonald/lilguy/internal/display"
)

var errImageLoad = errors.New("failed to load image")

// Sheet cuts a sprite sheet into equally sized tiles. Tiles are copied out
// once and cached.
type Sheet struct {
	img   image.Image
	tileW int
	tileH int
	tiles map[image.Point]*image.RGBA
}

func NewSheet(img image.Image, tileW int, tileH int) *Sheet {
	return &Sheet{img: img, tileW: tileW, tileH: tileH, tiles: map[image.Point]*image.RGBA{}}
}

// Columns is the number of whole tiles per row.
func (s *Sheet) Columns() int {
	return s.img.Bounds().Dx() / s.tileW
}

func (s *Sheet) Tile(col int, row int) *image.RGBA {
	key := image.Point{X: col, Y: row}
	if tile, found := s.tiles[key]; found {
		return tile
	}

	origin := s.img.Bounds().Min.Add(image.Pt(col*s.tileW, row*s.tileH))
	tile := image.NewRGBA(image.Rect(0, 0, s.tileW, s.tileH))
	draw.Draw(tile, tile.Bounds(), s.img, origin, draw.Src)
	s.tiles[key] = tile

	return tile
}

// Frames returns the first count tiles of a row, upscaled by factor.
func (s *Sheet) Frames(row int, count int, factor int) []image.Image {
	frames := make([]image.Image, 0, count)
	for col := range min(count, s.Columns()) {
		frames = append(frames, display.Scale(s.Tile(col, row), factor))
	}

	return frames
}

func LoadPNG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(err, errImageLoad)
	}

	defer file.Close()

	img, errDecode := png.Decode(file)
	if errDecode != nil {
		return nil, errors.Join(errDecode, errImageLoad)
	}

	return img, nil
}
