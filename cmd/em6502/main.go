// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ezrec/em6502/display"
	"github.com/ezrec/em6502/emulator"
	"github.com/ezrec/em6502/schedule"
)

func main() {
	var compile string
	var timeout time.Duration
	var decompile int
	var registers bool
	var window bool
	var ansi bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile, or '-' for stdin (default: demo)")
	flag.DurationVar(&timeout, "t", 0, "Stop after this much run time (0: until BRK)")
	flag.IntVar(&decompile, "d", -1, "Decompile memory from this address after the run")
	flag.BoolVar(&registers, "r", false, "Show registers after the run")
	flag.BoolVar(&window, "w", false, "Show the display in a window")
	flag.BoolVar(&ansi, "a", false, "Show the display on the terminal after the run")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	fb := &display.Framebuffer{}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Console = colorConsole{Output: os.Stderr}
	emu.Display = fb

	var source io.Reader
	switch compile {
	case "":
		compile = "demo"
		source = strings.NewReader(emulator.DemoSource)
	case "-":
		source = os.Stdin
	default:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()
		source = inf
	}

	err := emu.Compile(source)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	if window {
		win := &Window{
			Emulator:    emu,
			Framebuffer: fb,
			Timeout:     timeout,
		}
		err = win.Show(fmt.Sprintf("em6502: %v", compile))
		if err != nil {
			log.Fatal(err)
		}
	} else {
		loop := schedule.NewLoop()
		emu.Scheduler = loop

		ctx := context.Background()
		if timeout != 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		emu.Run()
		err = loop.Run(ctx)
		emu.Stop()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.Fatal(err)
		}
	}

	if verbose {
		log.Printf("%v: %v instructions, %.0f/s", compile, emu.Ticks(), emu.IPS())
	}

	if ansi {
		term := &display.Terminal{Output: os.Stdout}
		err = term.Render(fb)
		if err != nil {
			log.Fatal(err)
		}
	}

	if registers {
		fmt.Print(emu.Cpu.String())
	}

	if decompile >= 0 {
		fmt.Println(emu.Decompile(decompile))
	}

	if emu.State() == emulator.STATE_HALTED {
		os.Exit(1)
	}
}
