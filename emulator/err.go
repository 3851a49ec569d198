package emulator

import (
	"strconv"

	"github.com/ezrec/em6502/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address uint16 // Address of the faulting instruction.
	LineNo  int    // Source line of the instruction, or 0 if unknown.
	Err     error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("$%04X: %v", err.Address, err.Err)
	}
	return f("$%04X: line %v %v", err.Address, strconv.Itoa(err.LineNo), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
