// Package cpu implements the MOS 6502 microprocessor, its instruction
// catalogue, and the assembler and disassembler for its machine code.
//
// The CPU consists of an accumulator (A), two index registers (X, Y), a
// processor status register (P), a 16-bit program counter (PC) and a stack
// pointer (SP) into the fixed stack page at $0100. Memory is a flat 64KB
// array; reads of the RANDOM_ADDRESS zero page cell return a fresh random
// byte, and writes into the display window ($FC00-$FFFF) are mirrored to an
// attached Display.
//
// The assembler translates 6502 assembly source into a Program, resolving
// labels in a second pass, supporting origin directives, equates and
// compile-time expressions. The disassembler renders memory back into
// assembly text.
package cpu
