// Package schedule provides the scheduling port used to drive execution
// batches: a Scheduler runs a callback after a delay, optionally repeating,
// and returns a Handle that cancels it.
package schedule

import (
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Cancel prevents any further invocation of the callback. Cancelling
	// an expired or cancelled callback has no effect.
	Cancel()
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	// Schedule runs fn after delay. If repeat is set, fn is run again
	// every delay until cancelled.
	Schedule(fn func(), delay time.Duration, repeat bool) Handle
}
