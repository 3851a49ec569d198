package cpu

import (
	"math/rand/v2"
)

const (
	MEMORY_SIZE    = 0x10000 // Addressable memory, in bytes.
	MEMORY_MASK    = 0xffff  // Mask applied to every address.
	BYTE_MASK      = 0xff    // Mask applied to every stored value.
	ZERO_PAGE      = 0x0000  // Start of the zero page.
	STACK_BASE     = 0x0100  // Start of the stack page.
	DEFAULT_START  = 0x0200  // Default program origin.
	DISPLAY_START  = 0xfc00  // Start of the display window.
	DISPLAY_SIZE   = 0x0400  // Size of the display window.
	RANDOM_ADDRESS = 0x00fe  // Zero page random number tap.
)

// Display is notified of every write into the display window.
type Display interface {
	// Plot is called with the memory address and value of a display write.
	Plot(address uint16, value byte)
	// Clear resets every pixel to zero.
	Clear()
}

// InDisplay returns true if the address lies in the display window.
func InDisplay(address uint16) bool {
	return address >= DISPLAY_START
}

// Peek returns the byte at address, masked to the 64KB address space.
// Reads of RANDOM_ADDRESS return a fresh random byte.
func (cpu *Cpu) Peek(address int) byte {
	address &= MEMORY_MASK
	if address == RANDOM_ADDRESS {
		return cpu.random()
	}

	return cpu.Memory[address]
}

// Poke stores the low byte of value at address, masked to the 64KB address
// space. Writes into the display window are forwarded to the Display.
func (cpu *Cpu) Poke(address int, value int) {
	addr := uint16(address & MEMORY_MASK)
	val := byte(value & BYTE_MASK)

	cpu.Memory[addr] = val

	if InDisplay(addr) && cpu.Display != nil {
		cpu.Display.Plot(addr, val)
	}
}

// PeekWord returns the little-endian word at address.
func (cpu *Cpu) PeekWord(address int) uint16 {
	lo := uint16(cpu.Peek(address))
	hi := uint16(cpu.Peek(address + 1))
	return (hi << 8) | lo
}

// random returns the next random byte.
func (cpu *Cpu) random() byte {
	if cpu.Random != nil {
		return cpu.Random()
	}

	return byte(rand.UintN(256))
}
