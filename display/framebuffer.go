// Package display implements the display window collaborator: a 32x32
// pixel framebuffer fed by writes into the CPU display window, and
// renderers for it.
package display

import (
	"fmt"
	"image"
	"image/color"
	"iter"
	"maps"

	"github.com/ezrec/em6502/cpu"
)

const (
	WIDTH  = 32 // Pixels per row.
	HEIGHT = 32 // Rows.
)

var _display_defines = map[string]string{
	"DISPLAY_WIDTH":  fmt.Sprintf("%v", WIDTH),
	"DISPLAY_HEIGHT": fmt.Sprintf("%v", HEIGHT),
}

// Palette is the fixed 16 colour palette, indexed by the low nibble of a
// display byte.
var Palette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff}, // black
	{0xff, 0xff, 0xff, 0xff}, // white
	{0x88, 0x00, 0x00, 0xff}, // red
	{0xaa, 0xff, 0xee, 0xff}, // cyan
	{0xcc, 0x44, 0xcc, 0xff}, // purple
	{0x00, 0xcc, 0x55, 0xff}, // green
	{0x00, 0x00, 0xaa, 0xff}, // blue
	{0xee, 0xee, 0x77, 0xff}, // yellow
	{0xdd, 0x88, 0x55, 0xff}, // orange
	{0x66, 0x44, 0x00, 0xff}, // brown
	{0xff, 0x77, 0x77, 0xff}, // light red
	{0x33, 0x33, 0x33, 0xff}, // dark grey
	{0x77, 0x77, 0x77, 0xff}, // grey
	{0xaa, 0xff, 0x66, 0xff}, // light green
	{0x00, 0x88, 0xff, 0xff}, // light blue
	{0xbb, 0xbb, 0xbb, 0xff}, // light grey
}

// Framebuffer is a cpu.Display holding the colour index of every pixel.
type Framebuffer struct {
	Pixels [WIDTH * HEIGHT]byte // Colour indexes, row major.
	Dirty  bool                 // Set on every change, cleared by the renderer.
}

var _ cpu.Display = (*Framebuffer)(nil)

// Plot sets the pixel for a display window address. The address is masked
// to the window, and the value to a palette index.
func (fb *Framebuffer) Plot(address uint16, value byte) {
	index := int(address) & (cpu.DISPLAY_SIZE - 1)
	fb.Pixels[index] = value & 0x0f
	fb.Dirty = true
}

// Clear sets every pixel to colour 0.
func (fb *Framebuffer) Clear() {
	clear(fb.Pixels[:])
	fb.Dirty = true
}

// At returns the colour index of the pixel at x, y.
func (fb *Framebuffer) At(x, y int) byte {
	return fb.Pixels[y*WIDTH+x]
}

// Color returns the colour of the pixel at x, y.
func (fb *Framebuffer) Color(x, y int) color.RGBA {
	return Palette[fb.At(x, y)]
}

// Image renders the framebuffer as an RGBA image, one pixel per cell.
func (fb *Framebuffer) Image() (img *image.RGBA) {
	img = image.NewRGBA(image.Rect(0, 0, WIDTH, HEIGHT))
	for y := range HEIGHT {
		for x := range WIDTH {
			img.SetRGBA(x, y, fb.Color(x, y))
		}
	}

	return
}

// Defines returns the display geometry as assembler predefines.
func (fb *Framebuffer) Defines() iter.Seq2[string, string] {
	return maps.All(_display_defines)
}
