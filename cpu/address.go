package cpu

// ComputeBranch returns the target of a relative branch whose offset is
// taken from address, the byte following the branch instruction.
func ComputeBranch(address uint16, offset byte) uint16 {
	if offset > 0x7f {
		return address - (0x100 - uint16(offset))
	}

	return address + uint16(offset)
}

// AddrPop returns the byte at PC, and advances PC.
func (cpu *Cpu) AddrPop() (value byte) {
	value = cpu.Peek(int(cpu.PC))
	cpu.PC++
	return
}

// AddrPopWord returns the little-endian word at PC, and advances PC.
func (cpu *Cpu) AddrPopWord() (value uint16) {
	lo := uint16(cpu.AddrPop())
	hi := uint16(cpu.AddrPop())
	return (hi << 8) | lo
}

// AddrZeroPageX returns the zero page address (zp + X) & 0xff.
func (cpu *Cpu) AddrZeroPageX() uint16 {
	return uint16(cpu.AddrPop() + cpu.X)
}

// AddrZeroPageY returns the zero page address (zp + Y) & 0xff.
func (cpu *Cpu) AddrZeroPageY() uint16 {
	return uint16(cpu.AddrPop() + cpu.Y)
}

// AddrAbsoluteX returns the absolute address plus X.
func (cpu *Cpu) AddrAbsoluteX() uint16 {
	return cpu.AddrPopWord() + uint16(cpu.X)
}

// AddrAbsoluteY returns the absolute address plus Y.
func (cpu *Cpu) AddrAbsoluteY() uint16 {
	return cpu.AddrPopWord() + uint16(cpu.Y)
}

// AddrIndirect returns the word pointed to by the absolute address.
func (cpu *Cpu) AddrIndirect() uint16 {
	return cpu.PeekWord(int(cpu.AddrPopWord()))
}

// zeroPageWord reads a little-endian word from the zero page, wrapping
// within it.
func (cpu *Cpu) zeroPageWord(zp byte) uint16 {
	lo := uint16(cpu.Peek(int(zp)))
	hi := uint16(cpu.Peek(int(zp + 1)))
	return (hi << 8) | lo
}

// AddrIndexedIndirectX returns the word at zero page (zp + X), as in ($zp,X).
func (cpu *Cpu) AddrIndexedIndirectX() uint16 {
	return cpu.zeroPageWord(cpu.AddrPop() + cpu.X)
}

// AddrIndirectIndexedY returns the word at zero page zp plus Y, as in ($zp),Y.
// The sum may cross into the next page.
func (cpu *Cpu) AddrIndirectIndexedY() uint16 {
	return cpu.zeroPageWord(cpu.AddrPop()) + uint16(cpu.Y)
}

// AddrRelative returns the target of the branch offset at PC.
func (cpu *Cpu) AddrRelative() uint16 {
	offset := cpu.AddrPop()
	return ComputeBranch(cpu.PC, offset)
}

// Resolve consumes the operand bytes of mode at PC, returning the operand.
func (cpu *Cpu) Resolve(mode Mode) (op Operand) {
	op.Mode = mode

	switch mode {
	case MODE_IMMEDIATE:
		op.Address = cpu.PC
		cpu.PC++
	case MODE_ZERO_PAGE:
		op.Address = uint16(cpu.AddrPop())
	case MODE_ZERO_PAGE_X:
		op.Address = cpu.AddrZeroPageX()
	case MODE_ZERO_PAGE_Y:
		op.Address = cpu.AddrZeroPageY()
	case MODE_ABSOLUTE:
		op.Address = cpu.AddrPopWord()
	case MODE_ABSOLUTE_X:
		op.Address = cpu.AddrAbsoluteX()
	case MODE_ABSOLUTE_Y:
		op.Address = cpu.AddrAbsoluteY()
	case MODE_INDIRECT:
		op.Address = cpu.AddrIndirect()
	case MODE_INDEXED_INDIRECT_X:
		op.Address = cpu.AddrIndexedIndirectX()
	case MODE_INDIRECT_INDEXED_Y:
		op.Address = cpu.AddrIndirectIndexedY()
	case MODE_RELATIVE:
		op.Address = cpu.AddrRelative()
	case MODE_SINGLE:
		// No operand bytes.
	}

	return
}

// load reads the operand value. Single mode operands are the accumulator.
func (cpu *Cpu) load(op Operand) byte {
	if op.Mode == MODE_SINGLE {
		return cpu.A
	}

	return cpu.Peek(int(op.Address))
}

// store writes the operand value. Single mode operands are the accumulator.
func (cpu *Cpu) store(op Operand, value byte) {
	if op.Mode == MODE_SINGLE {
		cpu.A = value
		return
	}

	cpu.Poke(int(op.Address), int(value))
}
