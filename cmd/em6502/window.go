package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ezrec/em6502/display"
	"github.com/ezrec/em6502/emulator"
)

const (
	WINDOW_SCALE  = 16 // Screen pixels per display pixel.
	FRAME_BATCHES = 16 // Execution batches per frame.
)

// Window drives the emulator from the ebiten game loop, and shows the
// display framebuffer.
type Window struct {
	Emulator    *emulator.Emulator
	Framebuffer *display.Framebuffer
	Timeout     time.Duration // If non-zero, quit after this much run time.

	image *ebiten.Image
}

func (win *Window) Update() error {
	emu := win.Emulator

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if emu.State() == emulator.STATE_RUNNING {
			emu.Stop()
		} else {
			emu.Run()
		}
	}

	for range FRAME_BATCHES {
		if emu.State() != emulator.STATE_RUNNING {
			break
		}
		emu.ExecuteBatch()
	}

	if win.Timeout != 0 && emu.Elapsed() >= win.Timeout {
		emu.Stop()
		return ebiten.Termination
	}

	return nil
}

func (win *Window) Draw(screen *ebiten.Image) {
	if win.image == nil {
		win.image = ebiten.NewImage(display.WIDTH, display.HEIGHT)
		win.Framebuffer.Dirty = true
	}

	if win.Framebuffer.Dirty {
		win.image.WritePixels(win.Framebuffer.Image().Pix)
		win.Framebuffer.Dirty = false
	}

	screen.DrawImage(win.image, nil)
}

func (win *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return display.WIDTH, display.HEIGHT
}

// Show opens the window, and runs until it is closed.
func (win *Window) Show(title string) (err error) {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(display.WIDTH*WINDOW_SCALE, display.HEIGHT*WINDOW_SCALE)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	win.Emulator.Run()

	err = ebiten.RunGame(win)
	if err == ebiten.Termination {
		err = nil
	}

	return
}
