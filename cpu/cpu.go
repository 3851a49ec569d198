package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]string{
	"STACK":   fmt.Sprintf("$%04X", STACK_BASE),
	"START":   fmt.Sprintf("$%04X", DEFAULT_START),
	"DISPLAY": fmt.Sprintf("$%04X", DISPLAY_START),
	"RANDOM":  fmt.Sprintf("$%02X", RANDOM_ADDRESS),
}

// Cpu is the simulation context of a 6502 microprocessor and its memory.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	A  byte   // Accumulator.
	X  byte   // X index register.
	Y  byte   // Y index register.
	P  byte   // Processor status register.
	PC uint16 // Program counter.
	SP uint16 // Stack pointer, offset into the stack page. STACK_TOP when empty.

	Memory [MEMORY_SIZE]byte // Memory.

	Display Display     // Receives display window writes, if set.
	Random  func() byte // Random number source for RANDOM_ADDRESS, if set.

	Ticks int // Instructions executed since reset.

	table *Table
}

// NewCpu creates a new CPU, in the reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		table: FillTable(),
	}

	cpu.Reset()

	return
}

// Table returns the CPU opcode dispatch table.
func (cpu *Cpu) Table() *Table {
	return cpu.table
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "a", "x", "y", "sp", "p"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("$%04X", cpu.PC)
		case "a":
			strval = fmt.Sprintf("$%02X", cpu.A)
		case "x":
			strval = fmt.Sprintf("$%02X", cpu.X)
		case "y":
			strval = fmt.Sprintf("$%02X", cpu.Y)
		case "sp":
			strval = fmt.Sprintf("$%03X", cpu.SP)
		case "p":
			strval = fmt.Sprintf("$%02X %v", cpu.P, FlagString(cpu.P))
		}
		text += fmt.Sprintf("% 3s: %v\n", reg, strval)
	}

	return
}

// Reset the CPU state.
//   - Clears the registers and flags.
//   - Sets PC to DEFAULT_START, and SP to an empty stack.
//   - Zeros memory, and clears the display.
//   - Zeros the instruction counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.P = 0
	cpu.PC = DEFAULT_START
	cpu.SP = STACK_TOP
	cpu.Ticks = 0

	clear(cpu.Memory[:])

	if cpu.Display != nil {
		cpu.Display.Clear()
	}
}

// Fetch returns the instruction at PC, without executing it.
func (cpu *Cpu) Fetch() *Instruction {
	return &cpu.table[cpu.Memory[cpu.PC]]
}

// Tick executes a single instruction: fetches the opcode at PC, advances
// PC past it, and executes the catalogue entry.
func (cpu *Cpu) Tick() (err error) {
	inst := &cpu.table[cpu.AddrPop()]

	if cpu.Verbose {
		pc := cpu.PC - 1
		log.Printf("%v", inst.Disassemble(pc, cpu.Memory[pc+1], cpu.Memory[pc+2]))
	}

	err = inst.Execute(cpu)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}
