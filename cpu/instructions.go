package cpu

const (
	INVALID_NAME = "???" // Mnemonic of unpopulated opcodes.
)

// opcodeDef binds an opcode and addressing mode to a mnemonic's operation.
type opcodeDef struct {
	name   string
	opcode byte
	mode   Mode
	exec   Operation
}

// modes maps each addressing mode variant of a mnemonic to its opcode.
type modes map[Mode]byte

// variants expands a mnemonic into one opcodeDef per addressing mode.
func variants(name string, exec Operation, opcodes modes) (defs []opcodeDef) {
	for mode, opcode := range opcodes {
		defs = append(defs, opcodeDef{name: name, opcode: opcode, mode: mode, exec: exec})
	}
	return
}

// single is a shorthand for a one byte instruction.
func single(name string, opcode byte, exec Operation) []opcodeDef {
	return variants(name, exec, modes{MODE_SINGLE: opcode})
}

// branch is a shorthand for a relative branch taken when flag equals on.
func branch(name string, opcode byte, flag Flag, on bool) []opcodeDef {
	return variants(name, func(cpu *Cpu, op Operand) error {
		if cpu.CheckFlag(flag) == on {
			cpu.PC = op.Address
		}
		return nil
	}, modes{MODE_RELATIVE: opcode})
}

// flagSet is a shorthand for an instruction that sets or clears a flag.
func flagSet(name string, opcode byte, flag Flag, on bool) []opcodeDef {
	return single(name, opcode, func(cpu *Cpu, op Operand) error {
		cpu.SetFlag(flag, on)
		return nil
	})
}

// instructionSet returns the documented NMOS 6502 instruction set.
func instructionSet() (defs []opcodeDef) {
	groups := [][]opcodeDef{
		// Load and store
		variants("LDA", opLda, modes{
			MODE_IMMEDIATE: 0xa9, MODE_ZERO_PAGE: 0xa5, MODE_ZERO_PAGE_X: 0xb5,
			MODE_ABSOLUTE: 0xad, MODE_ABSOLUTE_X: 0xbd, MODE_ABSOLUTE_Y: 0xb9,
			MODE_INDEXED_INDIRECT_X: 0xa1, MODE_INDIRECT_INDEXED_Y: 0xb1,
		}),
		variants("LDX", opLdx, modes{
			MODE_IMMEDIATE: 0xa2, MODE_ZERO_PAGE: 0xa6, MODE_ZERO_PAGE_Y: 0xb6,
			MODE_ABSOLUTE: 0xae, MODE_ABSOLUTE_Y: 0xbe,
		}),
		variants("LDY", opLdy, modes{
			MODE_IMMEDIATE: 0xa0, MODE_ZERO_PAGE: 0xa4, MODE_ZERO_PAGE_X: 0xb4,
			MODE_ABSOLUTE: 0xac, MODE_ABSOLUTE_X: 0xbc,
		}),
		variants("STA", opSta, modes{
			MODE_ZERO_PAGE: 0x85, MODE_ZERO_PAGE_X: 0x95,
			MODE_ABSOLUTE: 0x8d, MODE_ABSOLUTE_X: 0x9d, MODE_ABSOLUTE_Y: 0x99,
			MODE_INDEXED_INDIRECT_X: 0x81, MODE_INDIRECT_INDEXED_Y: 0x91,
		}),
		variants("STX", opStx, modes{
			MODE_ZERO_PAGE: 0x86, MODE_ZERO_PAGE_Y: 0x96, MODE_ABSOLUTE: 0x8e,
		}),
		variants("STY", opSty, modes{
			MODE_ZERO_PAGE: 0x84, MODE_ZERO_PAGE_X: 0x94, MODE_ABSOLUTE: 0x8c,
		}),

		// Arithmetic and logic
		variants("ADC", opAdc, modes{
			MODE_IMMEDIATE: 0x69, MODE_ZERO_PAGE: 0x65, MODE_ZERO_PAGE_X: 0x75,
			MODE_ABSOLUTE: 0x6d, MODE_ABSOLUTE_X: 0x7d, MODE_ABSOLUTE_Y: 0x79,
			MODE_INDEXED_INDIRECT_X: 0x61, MODE_INDIRECT_INDEXED_Y: 0x71,
		}),
		variants("SBC", opSbc, modes{
			MODE_IMMEDIATE: 0xe9, MODE_ZERO_PAGE: 0xe5, MODE_ZERO_PAGE_X: 0xf5,
			MODE_ABSOLUTE: 0xed, MODE_ABSOLUTE_X: 0xfd, MODE_ABSOLUTE_Y: 0xf9,
			MODE_INDEXED_INDIRECT_X: 0xe1, MODE_INDIRECT_INDEXED_Y: 0xf1,
		}),
		variants("AND", opAnd, modes{
			MODE_IMMEDIATE: 0x29, MODE_ZERO_PAGE: 0x25, MODE_ZERO_PAGE_X: 0x35,
			MODE_ABSOLUTE: 0x2d, MODE_ABSOLUTE_X: 0x3d, MODE_ABSOLUTE_Y: 0x39,
			MODE_INDEXED_INDIRECT_X: 0x21, MODE_INDIRECT_INDEXED_Y: 0x31,
		}),
		variants("ORA", opOra, modes{
			MODE_IMMEDIATE: 0x09, MODE_ZERO_PAGE: 0x05, MODE_ZERO_PAGE_X: 0x15,
			MODE_ABSOLUTE: 0x0d, MODE_ABSOLUTE_X: 0x1d, MODE_ABSOLUTE_Y: 0x19,
			MODE_INDEXED_INDIRECT_X: 0x01, MODE_INDIRECT_INDEXED_Y: 0x11,
		}),
		variants("EOR", opEor, modes{
			MODE_IMMEDIATE: 0x49, MODE_ZERO_PAGE: 0x45, MODE_ZERO_PAGE_X: 0x55,
			MODE_ABSOLUTE: 0x4d, MODE_ABSOLUTE_X: 0x5d, MODE_ABSOLUTE_Y: 0x59,
			MODE_INDEXED_INDIRECT_X: 0x41, MODE_INDIRECT_INDEXED_Y: 0x51,
		}),
		variants("CMP", opCmp, modes{
			MODE_IMMEDIATE: 0xc9, MODE_ZERO_PAGE: 0xc5, MODE_ZERO_PAGE_X: 0xd5,
			MODE_ABSOLUTE: 0xcd, MODE_ABSOLUTE_X: 0xdd, MODE_ABSOLUTE_Y: 0xd9,
			MODE_INDEXED_INDIRECT_X: 0xc1, MODE_INDIRECT_INDEXED_Y: 0xd1,
		}),
		variants("CPX", opCpx, modes{
			MODE_IMMEDIATE: 0xe0, MODE_ZERO_PAGE: 0xe4, MODE_ABSOLUTE: 0xec,
		}),
		variants("CPY", opCpy, modes{
			MODE_IMMEDIATE: 0xc0, MODE_ZERO_PAGE: 0xc4, MODE_ABSOLUTE: 0xcc,
		}),
		variants("BIT", opBit, modes{
			MODE_ZERO_PAGE: 0x24, MODE_ABSOLUTE: 0x2c,
		}),

		// Increment and decrement
		variants("INC", opInc, modes{
			MODE_ZERO_PAGE: 0xe6, MODE_ZERO_PAGE_X: 0xf6,
			MODE_ABSOLUTE: 0xee, MODE_ABSOLUTE_X: 0xfe,
		}),
		variants("DEC", opDec, modes{
			MODE_ZERO_PAGE: 0xc6, MODE_ZERO_PAGE_X: 0xd6,
			MODE_ABSOLUTE: 0xce, MODE_ABSOLUTE_X: 0xde,
		}),
		single("INX", 0xe8, func(cpu *Cpu, op Operand) error { cpu.X++; cpu.SetFlags(cpu.X); return nil }),
		single("INY", 0xc8, func(cpu *Cpu, op Operand) error { cpu.Y++; cpu.SetFlags(cpu.Y); return nil }),
		single("DEX", 0xca, func(cpu *Cpu, op Operand) error { cpu.X--; cpu.SetFlags(cpu.X); return nil }),
		single("DEY", 0x88, func(cpu *Cpu, op Operand) error { cpu.Y--; cpu.SetFlags(cpu.Y); return nil }),

		// Shifts and rotates
		variants("ASL", opAsl, modes{
			MODE_SINGLE: 0x0a, MODE_ZERO_PAGE: 0x06, MODE_ZERO_PAGE_X: 0x16,
			MODE_ABSOLUTE: 0x0e, MODE_ABSOLUTE_X: 0x1e,
		}),
		variants("LSR", opLsr, modes{
			MODE_SINGLE: 0x4a, MODE_ZERO_PAGE: 0x46, MODE_ZERO_PAGE_X: 0x56,
			MODE_ABSOLUTE: 0x4e, MODE_ABSOLUTE_X: 0x5e,
		}),
		variants("ROL", opRol, modes{
			MODE_SINGLE: 0x2a, MODE_ZERO_PAGE: 0x26, MODE_ZERO_PAGE_X: 0x36,
			MODE_ABSOLUTE: 0x2e, MODE_ABSOLUTE_X: 0x3e,
		}),
		variants("ROR", opRor, modes{
			MODE_SINGLE: 0x6a, MODE_ZERO_PAGE: 0x66, MODE_ZERO_PAGE_X: 0x76,
			MODE_ABSOLUTE: 0x6e, MODE_ABSOLUTE_X: 0x7e,
		}),

		// Jumps and subroutines
		variants("JMP", opJmp, modes{
			MODE_ABSOLUTE: 0x4c, MODE_INDIRECT: 0x6c,
		}),
		variants("JSR", opJsr, modes{MODE_ABSOLUTE: 0x20}),
		single("RTS", 0x60, func(cpu *Cpu, op Operand) error { return cpu.StackRts() }),
		single("RTI", 0x40, opRti),
		single("BRK", 0x00, opBrk),
		single("NOP", 0xea, func(cpu *Cpu, op Operand) error { return nil }),

		// Branches
		branch("BPL", 0x10, FLAG_NEGATIVE, false),
		branch("BMI", 0x30, FLAG_NEGATIVE, true),
		branch("BVC", 0x50, FLAG_OVERFLOW, false),
		branch("BVS", 0x70, FLAG_OVERFLOW, true),
		branch("BCC", 0x90, FLAG_CARRY, false),
		branch("BCS", 0xb0, FLAG_CARRY, true),
		branch("BNE", 0xd0, FLAG_ZERO, false),
		branch("BEQ", 0xf0, FLAG_ZERO, true),

		// Flags
		flagSet("CLC", 0x18, FLAG_CARRY, false),
		flagSet("SEC", 0x38, FLAG_CARRY, true),
		flagSet("CLI", 0x58, FLAG_INTERRUPT, false),
		flagSet("SEI", 0x78, FLAG_INTERRUPT, true),
		flagSet("CLV", 0xb8, FLAG_OVERFLOW, false),
		flagSet("CLD", 0xd8, FLAG_DECIMAL, false),
		flagSet("SED", 0xf8, FLAG_DECIMAL, true),

		// Register transfers
		single("TAX", 0xaa, func(cpu *Cpu, op Operand) error { cpu.X = cpu.A; cpu.SetFlags(cpu.X); return nil }),
		single("TXA", 0x8a, func(cpu *Cpu, op Operand) error { cpu.A = cpu.X; cpu.SetFlags(cpu.A); return nil }),
		single("TAY", 0xa8, func(cpu *Cpu, op Operand) error { cpu.Y = cpu.A; cpu.SetFlags(cpu.Y); return nil }),
		single("TYA", 0x98, func(cpu *Cpu, op Operand) error { cpu.A = cpu.Y; cpu.SetFlags(cpu.A); return nil }),
		single("TSX", 0xba, func(cpu *Cpu, op Operand) error { cpu.X = byte(cpu.SP); cpu.SetFlags(cpu.X); return nil }),
		single("TXS", 0x9a, func(cpu *Cpu, op Operand) error { cpu.SP = uint16(cpu.X); return nil }),

		// Stack
		single("PHA", 0x48, func(cpu *Cpu, op Operand) error { return cpu.StackPush(cpu.A) }),
		single("PHP", 0x08, func(cpu *Cpu, op Operand) error {
			return cpu.StackPush(cpu.P | byte(FLAG_BREAK|FLAG_UNUSED))
		}),
		single("PLA", 0x68, opPla),
		single("PLP", 0x28, opPlp),
	}

	for _, group := range groups {
		defs = append(defs, group...)
	}

	return
}

func opLda(cpu *Cpu, op Operand) error {
	cpu.A = cpu.load(op)
	cpu.SetFlags(cpu.A)
	return nil
}

func opLdx(cpu *Cpu, op Operand) error {
	cpu.X = cpu.load(op)
	cpu.SetFlags(cpu.X)
	return nil
}

func opLdy(cpu *Cpu, op Operand) error {
	cpu.Y = cpu.load(op)
	cpu.SetFlags(cpu.Y)
	return nil
}

func opSta(cpu *Cpu, op Operand) error {
	cpu.store(op, cpu.A)
	return nil
}

func opStx(cpu *Cpu, op Operand) error {
	cpu.store(op, cpu.X)
	return nil
}

func opSty(cpu *Cpu, op Operand) error {
	cpu.store(op, cpu.Y)
	return nil
}

func opAdc(cpu *Cpu, op Operand) error {
	cpu.AddWithCarry(cpu.load(op))
	return nil
}

func opSbc(cpu *Cpu, op Operand) error {
	cpu.SubtractWithCarry(cpu.load(op))
	return nil
}

func opAnd(cpu *Cpu, op Operand) error {
	cpu.A &= cpu.load(op)
	cpu.SetFlags(cpu.A)
	return nil
}

func opOra(cpu *Cpu, op Operand) error {
	cpu.A |= cpu.load(op)
	cpu.SetFlags(cpu.A)
	return nil
}

func opEor(cpu *Cpu, op Operand) error {
	cpu.A ^= cpu.load(op)
	cpu.SetFlags(cpu.A)
	return nil
}

func opCmp(cpu *Cpu, op Operand) error {
	cpu.CompareWithFlags(cpu.A, cpu.load(op))
	return nil
}

func opCpx(cpu *Cpu, op Operand) error {
	cpu.CompareWithFlags(cpu.X, cpu.load(op))
	return nil
}

func opCpy(cpu *Cpu, op Operand) error {
	cpu.CompareWithFlags(cpu.Y, cpu.load(op))
	return nil
}

func opBit(cpu *Cpu, op Operand) error {
	value := cpu.load(op)
	cpu.SetFlag(FLAG_ZERO, cpu.A&value == 0)
	cpu.SetFlag(FLAG_NEGATIVE, value&0x80 != 0)
	cpu.SetFlag(FLAG_OVERFLOW, value&0x40 != 0)
	return nil
}

func opInc(cpu *Cpu, op Operand) error {
	value := cpu.load(op) + 1
	cpu.store(op, value)
	cpu.SetFlags(value)
	return nil
}

func opDec(cpu *Cpu, op Operand) error {
	value := cpu.load(op) - 1
	cpu.store(op, value)
	cpu.SetFlags(value)
	return nil
}

func opAsl(cpu *Cpu, op Operand) error {
	value := cpu.load(op)
	cpu.SetFlag(FLAG_CARRY, value&0x80 != 0)
	value <<= 1
	cpu.store(op, value)
	cpu.SetFlags(value)
	return nil
}

func opLsr(cpu *Cpu, op Operand) error {
	value := cpu.load(op)
	cpu.SetFlag(FLAG_CARRY, value&0x01 != 0)
	value >>= 1
	cpu.store(op, value)
	cpu.SetFlags(value)
	return nil
}

func opRol(cpu *Cpu, op Operand) error {
	value := cpu.load(op)
	carry := cpu.CheckFlag(FLAG_CARRY)
	cpu.SetFlag(FLAG_CARRY, value&0x80 != 0)
	value <<= 1
	if carry {
		value |= 0x01
	}
	cpu.store(op, value)
	cpu.SetFlags(value)
	return nil
}

func opRor(cpu *Cpu, op Operand) error {
	value := cpu.load(op)
	carry := cpu.CheckFlag(FLAG_CARRY)
	cpu.SetFlag(FLAG_CARRY, value&0x01 != 0)
	value >>= 1
	if carry {
		value |= 0x80
	}
	cpu.store(op, value)
	cpu.SetFlags(value)
	return nil
}

func opJmp(cpu *Cpu, op Operand) error {
	cpu.PC = op.Address
	return nil
}

// opJsr pushes the address of the last byte of the JSR instruction.
func opJsr(cpu *Cpu, op Operand) (err error) {
	err = cpu.StackPushWord(cpu.PC - 1)
	if err != nil {
		return
	}

	cpu.PC = op.Address
	return
}

func opRti(cpu *Cpu, op Operand) (err error) {
	if cpu.StackDepth() < 3 {
		err = ErrStackUnderflow
		return
	}

	p, _ := cpu.StackPop()
	cpu.P = p &^ byte(FLAG_BREAK)
	cpu.PC, err = cpu.StackPopWord()

	return
}

// opBrk skips the padding byte, sets the Break flag and stops the program.
func opBrk(cpu *Cpu, op Operand) error {
	cpu.PC++
	cpu.SetFlag(FLAG_BREAK, true)
	return ErrBreak
}

func opPla(cpu *Cpu, op Operand) (err error) {
	value, err := cpu.StackPop()
	if err != nil {
		return
	}

	cpu.A = value
	cpu.SetFlags(cpu.A)
	return
}

func opPlp(cpu *Cpu, op Operand) (err error) {
	p, err := cpu.StackPop()
	if err != nil {
		return
	}

	cpu.P = p &^ byte(FLAG_BREAK)
	return
}
