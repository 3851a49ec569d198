package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/em6502/cpu"
)

func TestFramebuffer(t *testing.T) {
	assert := assert.New(t)

	fb := &Framebuffer{}

	fb.Plot(cpu.DISPLAY_START, 0x01)
	assert.Equal(byte(0x01), fb.At(0, 0))
	assert.True(fb.Dirty)

	fb.Plot(cpu.DISPLAY_START+WIDTH+2, 0xf3)
	assert.Equal(byte(0x03), fb.At(2, 1))
	assert.Equal(Palette[3], fb.Color(2, 1))

	fb.Plot(0xffff, 0x0e)
	assert.Equal(byte(0x0e), fb.At(WIDTH-1, HEIGHT-1))

	img := fb.Image()
	assert.Equal(WIDTH, img.Bounds().Dx())
	assert.Equal(HEIGHT, img.Bounds().Dy())
	assert.Equal(Palette[1], img.RGBAAt(0, 0))
	assert.Equal(Palette[0], img.RGBAAt(1, 0))

	fb.Dirty = false
	fb.Clear()
	assert.True(fb.Dirty)
	assert.Equal([WIDTH * HEIGHT]byte{}, fb.Pixels)
}

func TestFramebuffer_Cpu(t *testing.T) {
	assert := assert.New(t)

	fb := &Framebuffer{}
	cp := cpu.NewCpu()
	cp.Display = fb

	cp.Poke(0xfc21, 0x05)
	assert.Equal(byte(0x05), fb.At(1, 1))

	cp.Poke(0x0021, 0x07)
	assert.Equal(byte(0x05), fb.At(1, 1))

	cp.Reset()
	assert.Equal(byte(0x00), fb.At(1, 1))
}

func TestFramebuffer_Defines(t *testing.T) {
	assert := assert.New(t)

	fb := &Framebuffer{}
	defines := map[string]string{}
	for key, value := range fb.Defines() {
		defines[key] = value
	}

	assert.Equal("32", defines["DISPLAY_WIDTH"])
	assert.Equal("32", defines["DISPLAY_HEIGHT"])
}

func TestTerminal(t *testing.T) {
	assert := assert.New(t)

	saved := color.NoColor
	defer func() { color.NoColor = saved }()

	fb := &Framebuffer{}
	fb.Plot(cpu.DISPLAY_START, 0x01)

	color.NoColor = true
	out := &bytes.Buffer{}
	term := &Terminal{Output: out}
	assert.NoError(term.Render(fb))
	assert.False(fb.Dirty)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Equal(HEIGHT, len(lines))
	assert.Equal(strings.Repeat("  ", WIDTH), lines[0])

	color.NoColor = false
	out.Reset()
	assert.NoError(term.Render(fb))
	assert.True(strings.HasPrefix(out.String(), "\x1b[48;2;255;255;255m  "))
}
