package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// flow lists the mnemonics that may set PC to other than the next
// instruction.
var flow = map[string]bool{
	"JMP": true, "JSR": true, "RTS": true, "RTI": true, "BRK": true,
	"BPL": true, "BMI": true, "BVC": true, "BVS": true,
	"BCC": true, "BCS": true, "BNE": true, "BEQ": true,
}

// popper lists the mnemonics that fail on an empty stack.
var popper = map[string]bool{
	"PLA": true, "PLP": true, "RTS": true, "RTI": true,
}

func FuzzCpu(f *testing.F) {
	for opcode := range 0x100 {
		f.Add(byte(opcode), byte(0x12), byte(0x34), byte(0x00), byte(0x00), false)
		f.Add(byte(opcode), byte(0xff), byte(0x80), byte(0xff), byte(0xff), true)
	}

	f.Fuzz(func(t *testing.T, opcode byte, lo byte, hi byte, a byte, p byte, stacked bool) {
		assert := assert.New(t)

		cpu := NewCpu()
		cpu.Random = func() byte { return 0x5a }
		cpu.A = a
		cpu.P = p
		cpu.X = 0x01
		cpu.Y = 0x02
		if stacked {
			cpu.StackPush(0x02)
			cpu.StackPush(0x04)
			cpu.StackPush(0x00)
		}
		pokeBytes(cpu, 0x200, opcode, lo, hi)

		inst := cpu.Fetch()
		depth := cpu.StackDepth()

		text, size := cpu.DisassembleAt(0x200)
		code_str := fmt.Sprintf("%v\ncpu:%v", text, cpu.String())
		assert.Equal(inst.Size, size, code_str)

		err := cpu.Tick()

		if err != nil {
			switch {
			case errors.Is(err, ErrOpcode(0)):
				assert.False(inst.Valid(), code_str)
			case errors.Is(err, ErrBreak):
				assert.Equal("BRK", inst.Name, code_str)
				assert.Equal(uint16(0x202), cpu.PC, code_str)
			case errors.Is(err, ErrStackUnderflow):
				assert.True(popper[inst.Name], code_str)
				assert.Equal(depth, cpu.StackDepth(), code_str)
			default:
				assert.NoError(err, code_str)
			}
			assert.Equal(0, cpu.Ticks, code_str)
			return
		}

		assert.True(inst.Valid(), code_str)
		assert.Equal(1, cpu.Ticks, code_str)

		if !flow[inst.Name] {
			assert.Equal(uint16(0x200+inst.Size), cpu.PC, code_str)
		}

		assert.LessOrEqual(cpu.StackDepth(), STACK_LIMIT, code_str)
	})
}
