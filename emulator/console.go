package emulator

import (
	"log"
)

// Console is the sink for emulator lifecycle and diagnostic lines.
type Console interface {
	Log(line string)
}

// LogConsole writes console lines to the standard logger.
type LogConsole struct{}

func (LogConsole) Log(line string) {
	log.Print(line)
}

// BufferConsole collects console lines.
type BufferConsole struct {
	Lines []string
}

func (bc *BufferConsole) Log(line string) {
	bc.Lines = append(bc.Lines, line)
}
