package terminal

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const halfBlock = "▀"

var (
	accent = lipgloss.Color("#5b6ee1")
	gray   = lipgloss.Color("#3e3e3e")

	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent)
	captionStyle = lipgloss.NewStyle().Foreground(accent).Bold(true).PaddingLeft(1).PaddingRight(2)
	helpStyle    = lipgloss.NewStyle().Foreground(gray)
	infoStyle    = lipgloss.NewStyle().Align(lipgloss.Center).Padding(1)
)

// Render draws frame as rows of half blocks, two pixel rows per line, keeping
// every scale-th pixel on both axes.
func Render(frame *image.RGBA, scale int, profile termenv.Profile) string {
	scale = max(scale, 1)
	bounds := frame.Bounds()

	var out strings.Builder

	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 * scale {
		if y > bounds.Min.Y {
			out.WriteByte('\n')
		}

		for x := bounds.Min.X; x < bounds.Max.X; x += scale {
			cell := termenv.String(halfBlock).Foreground(profile.FromColor(frame.RGBAAt(x, y)))
			if lower := y + scale; lower < bounds.Max.Y {
				cell = cell.Background(profile.FromColor(frame.RGBAAt(x, lower)))
			}

			out.WriteString(cell.String())
		}
	}

	return out.String()
}
