package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated bytes.
type Opcode struct {
	LineNo    int      // Source line number.
	Address   int      // Address of the first byte.
	Words     []string // Source words, after label and equate processing.
	Bytes     []byte   // Opcode and operand bytes, or data bytes.
	LinkLabel string   // Label to resolve into the operand, if any.
	Link      Link     // How the label is encoded into the operand.
}

// Link is the encoding of a label reference into operand bytes.
type Link int

const (
	LINK_NONE     = Link(0) // No label reference.
	LINK_WORD     = Link(1) // Little-endian word.
	LINK_BYTE     = Link(2) // Zero page byte.
	LINK_RELATIVE = Link(3) // Relative branch offset.
	LINK_LOW      = Link(4) // Low byte of the address.
	LINK_HIGH     = Link(5) // High byte of the address.
)

// Program is the result of a successful assembly.
type Program struct {
	Origin  uint16   // Start address.
	Opcodes []Opcode // Assembled lines, in source order.
}

type Debug struct {
	*Opcode
	Index int
}

// Debug locates the opcode containing the byte at address.
func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(address) >= op.Address && int(address) < op.Address+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(address) - op.Address,
			}
			break
		}
	}

	return
}

// LineNo returns the source line of the byte at address, or 0 if unknown.
func (prog *Program) LineNo(address uint16) int {
	dbg := prog.Debug(address)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Bytes iterates over every assembled byte and its address.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(address uint16, value byte) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(uint16(op.Address+n), value) {
					return
				}
			}
		}
	}
}

// Binary returns the memory image from the lowest to the highest assembled
// address. Gaps between segments are zero.
func (prog *Program) Binary() (bins []byte) {
	low, high := -1, -1
	for address := range prog.Bytes() {
		if low < 0 || int(address) < low {
			low = int(address)
		}
		if int(address) > high {
			high = int(address)
		}
	}

	if low < 0 {
		return
	}

	bins = make([]byte, high-low+1)
	for address, value := range prog.Bytes() {
		bins[int(address)-low] = value
	}

	return
}

// Load writes the program into CPU memory, and sets PC to the origin.
func (prog *Program) Load(cpu *Cpu) {
	for address, value := range prog.Bytes() {
		cpu.Poke(int(address), int(value))
	}

	cpu.PC = prog.Origin
}
