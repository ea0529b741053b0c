package display_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/leighmacdonald/lilguy/internal/display"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	sink := display.NewMemory(4, 4)
	frame := sink.Buffer()
	require.Equal(t, image.Rect(0, 0, 4, 4), frame.Bounds())

	frame.SetRGBA(1, 2, color.RGBA{R: 255, A: 255})
	require.NoError(t, sink.Present(frame))
	require.Equal(t, 1, sink.Presents())
	require.Equal(t, color.RGBA{R: 255, A: 255}, sink.Last().RGBAAt(1, 2))

	frame.SetRGBA(1, 2, color.RGBA{G: 255, A: 255})
	require.Equal(t, color.RGBA{R: 255, A: 255}, sink.Last().RGBAAt(1, 2), "presented frame is a copy")

	sink.Caption("home 20fps")
	require.Equal(t, "home 20fps", sink.LastCaption())

	require.NoError(t, sink.Close())
	require.ErrorIs(t, sink.Present(frame), display.ErrClosed)
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	dst := display.Scale(src, 3)
	require.Equal(t, image.Rect(0, 0, 6, 3), dst.Bounds())
	require.Equal(t, color.RGBA{B: 255, A: 255}, dst.RGBAAt(5, 2))
	require.Equal(t, color.RGBA{}, dst.RGBAAt(2, 2))
	require.Same(t, src, display.Scale(src, 1))
}

func TestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames", "frame.png")
	sink, err := display.NewSnapshot(path, 8, 8, 2)
	require.NoError(t, err)

	frame := sink.Buffer()
	frame.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	require.NoError(t, sink.Present(frame))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())

	r, g, b, _ := img.At(1, 1).RGBA()
	require.Equal(t, []uint32{10, 20, 30}, []uint32{r >> 8, g >> 8, b >> 8})
}
