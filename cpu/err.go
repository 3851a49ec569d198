package cpu

import (
	"errors"
	"strconv"

	"github.com/ezrec/em6502/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrBreak          = errors.New(f("break"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
	ErrOriginInvalid   = errors.New(f("origin invalid"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandInvalid  = errors.New(f("operand invalid"))
	ErrModeInvalid     = errors.New(f("addressing mode invalid"))
	ErrLineInvalid     = errors.New(f("line invalid"))
	ErrBranchRange     = errors.New(f("branch out of range"))
	ErrByteInvalid     = errors.New(f("byte value invalid"))
	ErrAddressRange    = errors.New(f("address out of range"))
)

// ErrOpcode is raised when execution reaches an unpopulated catalogue slot.
type ErrOpcode byte

func (eo ErrOpcode) Error() string {
	return f("invalid opcode $%02X", byte(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
