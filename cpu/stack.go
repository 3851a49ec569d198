package cpu

const (
	STACK_TOP   = 0x100 // Stack pointer of an empty stack.
	STACK_LIMIT = 0x100 // Maximum stack depth, in bytes.
)

// StackPush decrements SP and stores value in the stack page.
func (cpu *Cpu) StackPush(value byte) (err error) {
	if cpu.SP == 0 {
		err = ErrStackOverflow
		return
	}

	cpu.SP--
	cpu.Memory[STACK_BASE+cpu.SP] = value

	return
}

// StackPop reads the top of the stack page and increments SP.
func (cpu *Cpu) StackPop() (value byte, err error) {
	if cpu.SP >= STACK_TOP {
		err = ErrStackUnderflow
		return
	}

	value = cpu.Memory[STACK_BASE+cpu.SP]
	cpu.SP++

	return
}

// StackPushWord pushes a word, high byte first.
func (cpu *Cpu) StackPushWord(value uint16) (err error) {
	if cpu.SP < 2 {
		err = ErrStackOverflow
		return
	}

	cpu.StackPush(byte(value >> 8))
	cpu.StackPush(byte(value))

	return
}

// StackPopWord pops a word, low byte first.
func (cpu *Cpu) StackPopWord() (value uint16, err error) {
	if cpu.SP > STACK_TOP-2 {
		err = ErrStackUnderflow
		return
	}

	lo, _ := cpu.StackPop()
	hi, _ := cpu.StackPop()
	value = (uint16(hi) << 8) | uint16(lo)

	return
}

// StackRts returns from a subroutine: pops the return address pushed by JSR
// and resumes at the byte after it.
func (cpu *Cpu) StackRts() (err error) {
	addr, err := cpu.StackPopWord()
	if err != nil {
		return
	}

	cpu.PC = addr + 1

	return
}

// StackDepth returns the number of bytes on the stack.
func (cpu *Cpu) StackDepth() int {
	return STACK_TOP - int(cpu.SP)
}
