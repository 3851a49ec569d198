package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// colorConsole writes emulator console lines, with faults in red and
// assembler notices in yellow.
type colorConsole struct {
	Output io.Writer
}

var (
	consoleFault  = color.New(color.FgRed).SprintFunc()
	consoleNotice = color.New(color.FgYellow).SprintFunc()
)

func (cc colorConsole) Log(line string) {
	switch {
	case strings.HasPrefix(line, "halted"), strings.HasPrefix(line, "compile failed"):
		line = consoleFault(line)
	case strings.HasPrefix(line, "line "), strings.HasPrefix(line, "break"):
		line = consoleNotice(line)
	}

	fmt.Fprintln(cc.Output, line)
}
