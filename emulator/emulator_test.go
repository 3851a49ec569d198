package emulator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/em6502/cpu"
	"github.com/ezrec/em6502/display"
	"github.com/ezrec/em6502/schedule"
)

func newEmulator(t *testing.T, program ...string) (emu *Emulator, console *BufferConsole) {
	console = &BufferConsole{}

	emu = NewEmulator()
	emu.Console = console

	if len(program) != 0 {
		err := emu.Compile(strings.NewReader(strings.Join(program, "\n")))
		if !assert.NoError(t, err) {
			t.FailNow()
		}
	}

	return
}

func lastLine(console *BufferConsole) string {
	if len(console.Lines) == 0 {
		return ""
	}
	return console.Lines[len(console.Lines)-1]
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(STATE_STOPPED, emu.State())
	assert.Equal(BATCH_SIZE, emu.BatchSize)
	assert.Equal(uint16(cpu.DEFAULT_START), emu.PC)
	assert.Equal(uint16(cpu.STACK_TOP), emu.SP)
	assert.Equal("stopped", emu.State().String())
	assert.Equal("halted", STATE_HALTED.String())
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu, console := newEmulator(t, "LOOP: JMP LOOP")
	fb := &display.Framebuffer{}
	emu.Display = fb
	fb.Pixels[5] = 3

	emu.A, emu.X, emu.Y, emu.P = 1, 2, 3, 4
	emu.SP = 0x80
	emu.Run()
	emu.ExecuteBatch()

	emu.Reset()
	assert.Equal("reset", lastLine(console))
	assert.Equal(STATE_STOPPED, emu.State())
	assert.Nil(emu.Err)
	assert.Equal(byte(0), emu.A)
	assert.Equal(byte(0), emu.X)
	assert.Equal(byte(0), emu.Y)
	assert.Equal(byte(0), emu.P)
	assert.Equal(uint16(cpu.DEFAULT_START), emu.PC)
	assert.Equal(uint16(cpu.STACK_TOP), emu.SP)
	assert.Equal(0, emu.Ticks())
	assert.Equal([cpu.MEMORY_SIZE]byte{}, emu.Memory)
	assert.Equal(byte(0), fb.Pixels[5])
	assert.Empty(emu.Program.Opcodes)
}

func TestEmulator_States(t *testing.T) {
	assert := assert.New(t)

	emu, console := newEmulator(t)

	emu.Run()
	assert.Equal(STATE_RUNNING, emu.State())

	emu.Run()
	assert.Equal("run: already running", lastLine(console))
	assert.Equal(STATE_RUNNING, emu.State())

	emu.Stop()
	assert.Equal(STATE_STOPPED, emu.State())
	emu.Stop()
	assert.Equal(STATE_STOPPED, emu.State())

	emu.Halt(cpu.ErrStackOverflow)
	assert.Equal(STATE_HALTED, emu.State())
	assert.Equal("halted: stack overflow", lastLine(console))

	emu.Run()
	assert.Equal("run: halted, reset required", lastLine(console))
	assert.Equal(STATE_HALTED, emu.State())

	emu.Stop()
	assert.Equal(STATE_HALTED, emu.State())
	assert.False(emu.ExecuteOne())

	emu.Reset()
	assert.Equal(STATE_STOPPED, emu.State())
}

func TestEmulator_Fault(t *testing.T) {
	assert := assert.New(t)

	emu, console := newEmulator(t,
		"NOP",
		".byte $02",
	)

	emu.Run()
	assert.True(emu.ExecuteOne())
	assert.False(emu.ExecuteOne())
	assert.Equal(STATE_HALTED, emu.State())

	var rt *ErrRuntime
	if assert.ErrorAs(emu.Err, &rt) {
		assert.Equal(uint16(0x201), rt.Address)
		assert.Equal(2, rt.LineNo)
	}
	assert.ErrorIs(emu.Err, cpu.ErrOpcode(0))
	assert.True(strings.HasPrefix(lastLine(console), "halted: $0201: line 2 "))
	assert.Equal(1, emu.Ticks())
}

func TestEmulator_Break(t *testing.T) {
	assert := assert.New(t)

	emu, console := newEmulator(t,
		"BRK",
		".byte $00",
		"LDA #$01",
		"BRK",
	)

	emu.Run()
	assert.Equal(0, emu.ExecuteBatch())
	assert.Equal(STATE_STOPPED, emu.State())
	assert.Equal("break at $0200", lastLine(console))
	assert.Nil(emu.Err)

	emu.Run()
	assert.Equal(1, emu.ExecuteBatch())
	assert.Equal(byte(0x01), emu.A)
	assert.Equal("break at $0204", lastLine(console))
}

func TestEmulator_Compile(t *testing.T) {
	assert := assert.New(t)

	emu, console := newEmulator(t)

	err := emu.Compile(strings.NewReader("LOOP: JMP LOOP"))
	assert.NoError(err)
	assert.Equal("compiled, start $0200", lastLine(console))
	assert.Equal([]byte{0x4c, 0x00, 0x02}, emu.Memory[0x200:0x203])
	assert.Equal(uint16(0x200), emu.PC)
	assert.Equal(1, emu.LineNo())

	prog := emu.Program
	memory := emu.Memory

	err = emu.Compile(strings.NewReader("*=$0300\nLOOP: JMP LOOP\nLOOP: JMP LOOP"))
	assert.ErrorIs(err, cpu.ErrLabelDuplicate)
	assert.True(strings.HasPrefix(lastLine(console), "compile failed: "))
	assert.Equal(memory, emu.Memory)
	assert.Equal(uint16(0x200), emu.PC)
	assert.Equal(prog, emu.Program)

	err = emu.Compile(strings.NewReader("$0300: NOP\n$0400: NOP"))
	assert.NoError(err)
	assert.Contains(console.Lines, "line 2: origin $0400 ignored")
	assert.Equal(uint16(0x300), emu.PC)

	assert.Equal("$0300: NOP\r\n$0301: NOP", strings.Join(strings.Split(emu.Decompile(0x300), "\r\n")[:2], "\r\n"))

	err = emu.Compile(strings.NewReader("$0300:\nSTART: JMP START"))
	assert.NoError(err)
	assert.Equal([]byte{0x4c, 0x00, 0x03}, emu.Memory[0x300:0x303])
	assert.Equal(uint16(0x300), emu.PC)
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newEmulator(t)
	emu.Display = &display.Framebuffer{}

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("$FC00", defines["DISPLAY"])
	assert.Equal("$FE", defines["RANDOM"])
	assert.Equal("32", defines["DISPLAY_WIDTH"])

	err := emu.Compile(strings.NewReader("LDA #DISPLAY_WIDTH\nSTA DISPLAY\nLDX RANDOM"))
	assert.NoError(err)
	assert.Equal([]byte{0xa9, 0x20, 0x8d, 0x00, 0xfc, 0xa6, 0xfe}, emu.Program.Binary())
}

func TestEmulator_Scheduled(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newEmulator(t, "LOOP: JMP LOOP")
	sched := &schedule.Manual{}
	emu.Scheduler = sched

	emu.Run()
	assert.Equal(1, sched.Pending())

	assert.True(sched.Step())
	assert.Equal(BATCH_SIZE, emu.Ticks())
	assert.Equal(1, sched.Pending())

	emu.ExecuteBatch()
	assert.Equal(2*BATCH_SIZE, emu.Ticks())
	assert.Equal(1, sched.Pending())

	assert.True(sched.Step())
	assert.Equal(3*BATCH_SIZE, emu.Ticks())

	emu.Stop()
	assert.Equal(0, sched.Pending())
	assert.Equal(STATE_STOPPED, emu.State())
}

func TestEmulator_ScheduledFault(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newEmulator(t,
		"      LDX #$03",
		"LOOP: DEX",
		"      BNE LOOP",
		"      PLA",
	)
	sched := &schedule.Manual{}
	emu.Scheduler = sched

	emu.Run()
	assert.True(sched.Step())
	assert.Equal(7, emu.Ticks())
	assert.Equal(STATE_HALTED, emu.State())
	assert.ErrorIs(emu.Err, cpu.ErrStackUnderflow)
	assert.Equal(0, sched.Pending())
}

func TestEmulator_Loop(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newEmulator(t,
		"      LDX #$00",
		"LOOP: INX",
		"      BNE LOOP",
		"      BRK",
	)
	loop := schedule.NewLoop()
	emu.Scheduler = loop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emu.Run()
	assert.NoError(loop.Run(ctx))
	assert.Equal(STATE_STOPPED, emu.State())
	assert.Equal(1+2*256, emu.Ticks())
	assert.Equal(0, loop.Pending())
}

func TestEmulator_Execute(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newEmulator(t,
		"      LDX #$05",
		"LOOP: DEX",
		"      BNE LOOP",
		"      BRK",
	)

	emu.Run()
	assert.NoError(emu.Execute(context.Background()))
	assert.Equal(STATE_STOPPED, emu.State())
	assert.Equal(byte(0), emu.X)

	emu, _ = newEmulator(t, "LOOP: JMP LOOP")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	emu.Run()
	err := emu.Execute(ctx)
	assert.True(errors.Is(err, context.Canceled))
	assert.Equal(STATE_STOPPED, emu.State())
}

func TestEmulator_IPS(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newEmulator(t, "LOOP: JMP LOOP")

	now := time.Unix(1000, 0)
	emu.Now = func() time.Time { return now }

	emu.Run()

	now = now.Add(500 * time.Millisecond)
	emu.ExecuteBatch()
	assert.Equal(float64(0), emu.IPS())

	now = now.Add(500 * time.Millisecond)
	emu.ExecuteBatch()
	assert.Equal(float64(2*BATCH_SIZE), emu.IPS())
	assert.Equal(time.Second, emu.Elapsed())
}

func TestEmulator_Demo(t *testing.T) {
	assert := assert.New(t)

	fb := &display.Framebuffer{}

	emu, _ := newEmulator(t)
	emu.Display = fb
	emu.Cpu.Random = func() byte { return 0x57 }

	assert.NoError(emu.Compile(strings.NewReader(DemoSource)))

	emu.Run()
	for range 20 {
		emu.ExecuteBatch()
	}
	assert.Equal(STATE_RUNNING, emu.State())

	for n, pixel := range fb.Pixels {
		if !assert.Equal(byte(0x07), pixel, n) {
			break
		}
	}
}

func TestErrRuntime(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{Address: 0x200, LineNo: 2, Err: cpu.ErrStackUnderflow}
	assert.Equal("$0200: line 2 stack underflow", err.Error())
	assert.ErrorIs(err, cpu.ErrStackUnderflow)

	err = &ErrRuntime{Address: 0x0300, LineNo: 1234, Err: cpu.ErrStackOverflow}
	assert.Equal("$0300: line 1234 stack overflow", err.Error())

	err = &ErrRuntime{Address: 0x1234, Err: cpu.ErrOpcode(0x02)}
	assert.Equal("$1234: invalid opcode $02", err.Error())
}
