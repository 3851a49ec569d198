package cpu

import (
	"fmt"
	"strings"
)

// Mode is an addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_IMMEDIATE          = Mode(0)  // immediate
	MODE_ZERO_PAGE          = Mode(1)  // zeropage
	MODE_ZERO_PAGE_X        = Mode(2)  // zeropage,x
	MODE_ZERO_PAGE_Y        = Mode(3)  // zeropage,y
	MODE_ABSOLUTE           = Mode(4)  // absolute
	MODE_ABSOLUTE_X         = Mode(5)  // absolute,x
	MODE_ABSOLUTE_Y         = Mode(6)  // absolute,y
	MODE_INDIRECT           = Mode(7)  // indirect
	MODE_INDEXED_INDIRECT_X = Mode(8)  // (indirect,x)
	MODE_INDIRECT_INDEXED_Y = Mode(9)  // (indirect),y
	MODE_SINGLE             = Mode(10) // single
	MODE_RELATIVE           = Mode(11) // relative
)

// Size returns the instruction size, in bytes, of an opcode in this mode.
func (mode Mode) Size() int {
	switch mode {
	case MODE_SINGLE:
		return 1
	case MODE_ABSOLUTE, MODE_ABSOLUTE_X, MODE_ABSOLUTE_Y, MODE_INDIRECT:
		return 3
	default:
		return 2
	}
}

// modeFormat is the operand syntax of each mode.
var modeFormat = [...]string{
	MODE_IMMEDIATE:          "#$%02X",
	MODE_ZERO_PAGE:          "$%02X",
	MODE_ZERO_PAGE_X:        "$%02X,X",
	MODE_ZERO_PAGE_Y:        "$%02X,Y",
	MODE_ABSOLUTE:           "$%04X",
	MODE_ABSOLUTE_X:         "$%04X,X",
	MODE_ABSOLUTE_Y:         "$%04X,Y",
	MODE_INDIRECT:           "($%04X)",
	MODE_INDEXED_INDIRECT_X: "($%02X,X)",
	MODE_INDIRECT_INDEXED_Y: "($%02X),Y",
	MODE_SINGLE:             "",
	MODE_RELATIVE:           "$%04X",
}

// Operand is the resolved operand of an executing instruction.
type Operand struct {
	Mode    Mode
	Address uint16 // Effective address; for immediates, the address of the value.
}

// Operation is the execution semantics of a mnemonic.
type Operation func(cpu *Cpu, op Operand) error

// Instruction describes a single opcode of the catalogue.
type Instruction struct {
	Name   string    // Mnemonic.
	Opcode byte      // Opcode byte.
	Mode   Mode      // Addressing mode.
	Size   int       // Size in bytes, including the opcode.
	exec   Operation // Execution semantics.
}

// Valid returns true if the instruction is a populated catalogue entry.
func (inst *Instruction) Valid() bool {
	return inst.exec != nil
}

// Execute resolves the operand at PC and runs the instruction. PC must
// already point past the opcode byte.
func (inst *Instruction) Execute(cpu *Cpu) (err error) {
	if inst.exec == nil {
		err = ErrOpcode(inst.Opcode)
		return
	}

	op := cpu.Resolve(inst.Mode)
	err = inst.exec(cpu, op)

	return
}

// Operand renders the operand text of the instruction at address.
func (inst *Instruction) Operand(address uint16, lo, hi byte) string {
	var value uint16
	switch inst.Size {
	case 2:
		value = uint16(lo)
	case 3:
		value = (uint16(hi) << 8) | uint16(lo)
	}

	if inst.Mode == MODE_RELATIVE {
		value = ComputeBranch(address+2, lo)
	}

	if inst.Mode == MODE_SINGLE {
		return ""
	}

	return fmt.Sprintf(modeFormat[inst.Mode], value)
}

// Disassemble renders the instruction at address as '$AAAA: MNM operand'.
func (inst *Instruction) Disassemble(address uint16, lo, hi byte) string {
	line := fmt.Sprintf("$%04X: %s %s", address, inst.Name, inst.Operand(address, lo, hi))
	return strings.TrimRight(line, " ")
}

// Table is the 256 slot opcode dispatch table.
type Table [256]Instruction

// FillTable builds the dispatch table from the instruction set. Slots with
// no instruction hold an invalid entry that faults when executed.
func FillTable() (table *Table) {
	table = &Table{}

	for n := range table {
		table[n] = Instruction{
			Name:   INVALID_NAME,
			Opcode: byte(n),
			Mode:   MODE_SINGLE,
			Size:   1,
		}
	}

	for _, def := range instructionSet() {
		inst := &table[def.opcode]
		if inst.Valid() {
			panic(fmt.Sprintf("opcode $%02X: %v collides with %v", def.opcode, def.name, inst.Name))
		}
		*inst = Instruction{
			Name:   def.name,
			Opcode: def.opcode,
			Mode:   def.mode,
			Size:   def.mode.Size(),
			exec:   def.exec,
		}
	}

	return
}

// Lookup returns every instruction with the mnemonic name, in opcode order.
func (table *Table) Lookup(name string) (insts []*Instruction) {
	name = strings.ToUpper(name)
	for n := range table {
		inst := &table[n]
		if inst.Valid() && inst.Name == name {
			insts = append(insts, inst)
		}
	}

	return
}

// Mnemonics returns the set of valid mnemonic names.
func (table *Table) Mnemonics() (names map[string]bool) {
	names = make(map[string]bool, 64)
	for n := range table {
		if table[n].Valid() {
			names[table[n].Name] = true
		}
	}

	return
}
