// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"io"
	"iter"
	"maps"
	"time"

	"github.com/ezrec/em6502/cpu"
	"github.com/ezrec/em6502/internal"
	"github.com/ezrec/em6502/schedule"
)

const (
	BATCH_SIZE  = 255         // Instructions per execution batch.
	BATCH_DELAY = 0           // Delay before the next batch.
	IPS_WINDOW  = time.Second // Throughput measurement window.
)

var _emulator_defines = map[string]string{
	"BATCH_SIZE": "255",
}

// Definer is implemented by collaborators that contribute assembler
// predefines.
type Definer interface {
	Defines() iter.Seq2[string, string]
}

// Emulator is the CPU engine: a CPU, its loaded program, and the
// Stopped/Running/Halted execution state machine.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Console   Console            // Sink for lifecycle lines.
	Scheduler schedule.Scheduler // Batch scheduler; if nil, the host calls ExecuteBatch.
	Now       func() time.Time   // Clock for throughput measurement.
	BatchSize int                // Instructions per batch.
	Delay     time.Duration      // Delay between batches.

	Err error // Fault that halted the emulator, if any.

	state       State
	handle      schedule.Handle
	started     time.Time
	windowStart time.Time
	windowTicks int
	ips         float64
}

// NewEmulator creates a new emulator, in the reset state.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:       cpu.NewCpu(),
		Program:   &cpu.Program{},
		Console:   LogConsole{},
		Now:       time.Now,
		BatchSize: BATCH_SIZE,
		Delay:     BATCH_DELAY,
	}

	return
}

func (emu *Emulator) log(line string) {
	if emu.Console != nil {
		emu.Console.Log(line)
	}
}

// Defines returns an iterator over all of the assembler predefines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	seqs := []iter.Seq2[string, string]{
		maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	}

	if definer, ok := emu.Cpu.Display.(Definer); ok {
		seqs = append(seqs, definer.Defines())
	}

	return internal.IterSeq2Concat(seqs...)
}

// State returns the execution state.
func (emu *Emulator) State() State {
	return emu.state
}

// Ticks returns the total instructions executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// IPS returns the instructions per second measured over the last
// completed window.
func (emu *Emulator) IPS() float64 {
	return emu.ips
}

// Elapsed returns the time since the last Run.
func (emu *Emulator) Elapsed() time.Duration {
	if emu.started.IsZero() {
		return 0
	}

	return emu.Now().Sub(emu.started)
}

// LineNo returns the source line number of the instruction at PC.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(emu.Cpu.PC)
}

// Reset the emulator: cancels any scheduled batch, resets the CPU, memory
// and display, and unloads the program.
func (emu *Emulator) Reset() {
	emu.cancel()

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	emu.Program = &cpu.Program{}
	emu.Err = nil
	emu.state = STATE_STOPPED
	emu.started = time.Time{}
	emu.windowTicks = 0
	emu.ips = 0

	emu.log(f("reset"))
}

func (emu *Emulator) cancel() {
	if emu.handle != nil {
		emu.handle.Cancel()
		emu.handle = nil
	}
}

func (emu *Emulator) reschedule() {
	if emu.Scheduler == nil {
		return
	}

	emu.handle = emu.Scheduler.Schedule(func() {
		emu.handle = nil
		emu.ExecuteBatch()
	}, emu.Delay, false)
}

// Run starts execution at PC. Running while already running, or while
// halted, is rejected with a console notice.
func (emu *Emulator) Run() {
	switch emu.state {
	case STATE_RUNNING:
		emu.log(f("run: already running"))
		return
	case STATE_HALTED:
		emu.log(f("run: halted, reset required"))
		return
	}

	emu.state = STATE_RUNNING
	emu.started = emu.Now()
	emu.windowStart = emu.started
	emu.windowTicks = 0

	emu.reschedule()
}

// Stop cancels any scheduled batch. A running emulator becomes stopped; a
// halted one stays halted.
func (emu *Emulator) Stop() {
	emu.cancel()

	if emu.state == STATE_RUNNING {
		emu.state = STATE_STOPPED
	}
}

// Halt stops the emulator on a fault. Only Reset leaves the halted state.
func (emu *Emulator) Halt(err error) {
	emu.Stop()

	emu.state = STATE_HALTED
	emu.Err = err

	emu.log(f("halted: %v", err))
}

// ExecuteOne executes the instruction at PC. Faults halt the emulator,
// and BRK stops it. Returns true if the emulator is still running.
func (emu *Emulator) ExecuteOne() bool {
	if emu.state != STATE_RUNNING {
		return false
	}

	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.PC
	err := emu.Cpu.Tick()
	if err == nil {
		return true
	}

	if errors.Is(err, cpu.ErrBreak) {
		emu.log(f("break at $%04X", pc))
		emu.Stop()
		return false
	}

	emu.Halt(&ErrRuntime{
		Address: pc,
		LineNo:  emu.Program.LineNo(pc),
		Err:     err,
	})

	return false
}

// execute runs up to one batch of instructions.
func (emu *Emulator) execute() (count int) {
	for count < emu.BatchSize && emu.ExecuteOne() {
		count++
	}

	emu.measure(count)

	return
}

// ExecuteBatch runs up to BatchSize instructions, then reschedules itself
// on the Scheduler while still running. Returns the count of
// instructions executed.
func (emu *Emulator) ExecuteBatch() (count int) {
	count = emu.execute()

	if emu.state == STATE_RUNNING && emu.handle == nil {
		emu.reschedule()
	}

	return
}

// Execute runs batches on the calling goroutine until the emulator stops
// or the context is done. It is the driver for hosts without a Scheduler.
func (emu *Emulator) Execute(ctx context.Context) (err error) {
	for emu.state == STATE_RUNNING {
		err = ctx.Err()
		if err != nil {
			emu.Stop()
			return
		}
		emu.execute()
	}

	return
}

// measure accumulates throughput over the measurement window.
func (emu *Emulator) measure(count int) {
	emu.windowTicks += count

	now := emu.Now()
	elapsed := now.Sub(emu.windowStart)
	if elapsed >= IPS_WINDOW {
		emu.ips = float64(emu.windowTicks) / elapsed.Seconds()
		emu.windowStart = now
		emu.windowTicks = 0
	}
}

// Compile assembles source and, on success, loads it into memory and sets
// PC to its start address. On failure memory and PC are unchanged.
func (emu *Emulator) Compile(source io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	asm.SetTable(emu.Cpu.Table())
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Compile(emu.Cpu, source)
	for _, notice := range asm.Notices {
		emu.log(notice)
	}
	if err != nil {
		emu.log(f("compile failed: %v", err))
		return
	}

	emu.Program = prog
	emu.log(f("compiled, start $%04X", prog.Origin))

	return
}

// Decompile renders the memory from start as assembly text.
func (emu *Emulator) Decompile(start int) string {
	return emu.Cpu.Decompile(start)
}
