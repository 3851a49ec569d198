package display

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// Terminal renders a framebuffer as ANSI background coloured cells.
type Terminal struct {
	Output io.Writer // Destination of the rendered text.
}

// Render writes the framebuffer, two columns per pixel and one line per
// row, and clears its Dirty flag.
func (term *Terminal) Render(fb *Framebuffer) (err error) {
	var cells [len(Palette)]string
	for n, rgba := range Palette {
		cells[n] = color.BgRGB(int(rgba.R), int(rgba.G), int(rgba.B)).Sprint("  ")
	}

	var text strings.Builder
	for y := range HEIGHT {
		for x := range WIDTH {
			text.WriteString(cells[fb.At(x, y)])
		}
		text.WriteString("\n")
	}

	_, err = io.WriteString(term.Output, text.String())
	if err != nil {
		return
	}

	fb.Dirty = false

	return
}
