package cpu

// Flag is a processor status register bit mask.
type Flag byte

const (
	FLAG_CARRY     = Flag(0x01) // C
	FLAG_ZERO      = Flag(0x02) // Z
	FLAG_INTERRUPT = Flag(0x04) // I
	FLAG_DECIMAL   = Flag(0x08) // D
	FLAG_BREAK     = Flag(0x10) // B
	FLAG_UNUSED    = Flag(0x20) // -
	FLAG_OVERFLOW  = Flag(0x40) // V
	FLAG_NEGATIVE  = Flag(0x80) // N
)

var flagNames = [8]struct {
	flag Flag
	name byte
}{
	{FLAG_NEGATIVE, 'N'},
	{FLAG_OVERFLOW, 'V'},
	{FLAG_UNUSED, '-'},
	{FLAG_BREAK, 'B'},
	{FLAG_DECIMAL, 'D'},
	{FLAG_INTERRUPT, 'I'},
	{FLAG_ZERO, 'Z'},
	{FLAG_CARRY, 'C'},
}

// FlagString renders a status byte as NV-BDIZC, with '.' for clear bits.
func FlagString(p byte) string {
	out := make([]byte, len(flagNames))
	for n, fn := range flagNames {
		if p&byte(fn.flag) != 0 {
			out[n] = fn.name
		} else {
			out[n] = '.'
		}
	}
	return string(out)
}

// CheckFlag returns true if every bit of mask is set in P.
func (cpu *Cpu) CheckFlag(mask Flag) bool {
	return cpu.P&byte(mask) == byte(mask)
}

// SetFlag sets or clears the mask bits in P.
func (cpu *Cpu) SetFlag(mask Flag, on bool) {
	if on {
		cpu.P |= byte(mask)
	} else {
		cpu.P &^= byte(mask)
	}
}

// SetFlags updates the Negative and Zero flags from value.
func (cpu *Cpu) SetFlags(value byte) {
	cpu.SetFlag(FLAG_NEGATIVE, value&0x80 != 0)
	cpu.SetFlag(FLAG_ZERO, value == 0)
}

// CompareWithFlags performs the CMP/CPX/CPY flag update of register - value.
func (cpu *Cpu) CompareWithFlags(register byte, value byte) {
	cpu.SetFlag(FLAG_CARRY, register >= value)
	cpu.SetFlags(register - value)
}
