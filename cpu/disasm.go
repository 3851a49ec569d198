package cpu

import (
	"iter"
	"strings"

	"github.com/ezrec/em6502/internal"
)

const (
	DECOMPILE_LIMIT = 50 // Maximum instructions rendered by Decompile.
)

// DisassembleAt renders the instruction in memory at address, returning
// the text and the instruction size. Memory is read without side effects.
func (cpu *Cpu) DisassembleAt(address uint16) (line string, size int) {
	inst := &cpu.table[cpu.Memory[address]]

	var operand [2]byte
	for n := range inst.Size - 1 {
		next := int(address) + 1 + n
		if next < MEMORY_SIZE {
			operand[n] = cpu.Memory[next]
		}
	}

	line = inst.Disassemble(address, operand[0], operand[1])
	size = inst.Size

	return
}

// Disassemble returns an iterator over the instructions from start, as
// address and rendered text, up to the top of the address space.
func (cpu *Cpu) Disassemble(start uint16) iter.Seq2[uint16, string] {
	return func(yield func(address uint16, line string) bool) {
		for address := int(start); address < MEMORY_SIZE; {
			line, size := cpu.DisassembleAt(uint16(address))
			if !yield(uint16(address), line) {
				return
			}
			address += size
		}
	}
}

// Decompile renders up to DECOMPILE_LIMIT instructions from start, joined
// by CRLF.
func (cpu *Cpu) Decompile(start int) string {
	var lines []string

	listing := internal.IterSeq2Limit(cpu.Disassemble(uint16(start&MEMORY_MASK)), DECOMPILE_LIMIT)
	for _, line := range listing {
		lines = append(lines, line)
	}

	return strings.Join(lines, "\r\n")
}
