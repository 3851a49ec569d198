package emulator

//go:generate go tool stringer -type=State -linecomment

// State is the execution state of the emulator.
type State int

const (
	STATE_STOPPED = State(iota) // stopped
	STATE_RUNNING               // running
	STATE_HALTED                // halted
)
