package cpu

// AddWithCarry adds value and the carry to the accumulator, in binary or
// BCD as selected by the Decimal flag.
func (cpu *Cpu) AddWithCarry(value byte) {
	acc := uint16(cpu.A)
	add := uint16(value)
	var carry uint16
	if cpu.CheckFlag(FLAG_CARRY) {
		carry = 1
	}

	binary := acc + add + carry
	cpu.SetFlag(FLAG_OVERFLOW, (^(acc^add))&(acc^binary)&0x80 != 0)

	if !cpu.CheckFlag(FLAG_DECIMAL) {
		cpu.SetFlag(FLAG_CARRY, binary > 0xff)
		cpu.A = byte(binary)
		cpu.SetFlags(cpu.A)
		return
	}

	lo := (acc & 0x0f) + (add & 0x0f) + carry
	var carrylo uint16
	if lo >= 0x0a {
		carrylo = 0x10
		lo -= 0x0a
	}

	hi := (acc & 0xf0) + (add & 0xf0) + carrylo
	if hi >= 0xa0 {
		cpu.SetFlag(FLAG_CARRY, true)
		hi -= 0xa0
	} else {
		cpu.SetFlag(FLAG_CARRY, false)
	}

	cpu.A = byte(hi&0xf0) | byte(lo&0x0f)
	cpu.SetFlags(cpu.A)
}

// SubtractWithCarry subtracts value and the borrow (inverted carry) from the
// accumulator, in binary or BCD as selected by the Decimal flag.
func (cpu *Cpu) SubtractWithCarry(value byte) {
	acc := uint16(cpu.A)
	sub := uint16(value)
	var carry uint16
	if cpu.CheckFlag(FLAG_CARRY) {
		carry = 1
	}

	binary := 0xff + acc - sub + carry
	cpu.SetFlag(FLAG_OVERFLOW, (acc^sub)&(acc^binary)&0x80 != 0)

	if !cpu.CheckFlag(FLAG_DECIMAL) {
		cpu.SetFlag(FLAG_CARRY, binary > 0xff)
		cpu.A = byte(binary)
		cpu.SetFlags(cpu.A)
		return
	}

	lo := 0x0f + (acc & 0x0f) - (sub & 0x0f) + carry
	var carrylo uint16
	if lo < 0x10 {
		lo -= 0x06
	} else {
		lo -= 0x10
		carrylo = 0x10
	}

	hi := 0xf0 + (acc & 0xf0) - (sub & 0xf0) + carrylo
	if hi < 0x100 {
		cpu.SetFlag(FLAG_CARRY, false)
		hi -= 0x60
	} else {
		cpu.SetFlag(FLAG_CARRY, true)
		hi -= 0x100
	}

	cpu.A = byte(hi&0xf0) | byte(lo&0x0f)
	cpu.SetFlags(cpu.A)
}
