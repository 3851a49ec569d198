package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a host owned event loop. Timers expire in the background, but
// every callback runs on the goroutine calling Run.
type Loop struct {
	mutex  sync.Mutex
	queue  []*loopEntry  // Expired entries, in expiry order.
	active int           // Entries neither cancelled nor finished.
	wake   chan struct{} // Signalled on expiry or release.
}

type loopEntry struct {
	loop   *Loop
	fn     func()
	delay  time.Duration
	repeat bool
	timer  *time.Timer
	done   atomic.Bool
}

// NewLoop creates an empty event loop.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

func (loop *Loop) signal() {
	select {
	case loop.wake <- struct{}{}:
	default:
	}
}

// Schedule implements Scheduler.
func (loop *Loop) Schedule(fn func(), delay time.Duration, repeat bool) Handle {
	ent := &loopEntry{
		loop:   loop,
		fn:     fn,
		delay:  delay,
		repeat: repeat,
	}

	loop.mutex.Lock()
	loop.active++
	ent.arm()
	loop.mutex.Unlock()

	return ent
}

// arm starts the entry timer. Called with the loop mutex held.
func (ent *loopEntry) arm() {
	ent.timer = time.AfterFunc(ent.delay, func() {
		loop := ent.loop
		loop.mutex.Lock()
		if !ent.done.Load() {
			loop.queue = append(loop.queue, ent)
		}
		loop.mutex.Unlock()
		loop.signal()
	})
}

// release retires the entry once.
func (ent *loopEntry) release() {
	if !ent.done.CompareAndSwap(false, true) {
		return
	}

	loop := ent.loop
	loop.mutex.Lock()
	loop.active--
	if ent.timer != nil {
		ent.timer.Stop()
	}
	loop.mutex.Unlock()
	loop.signal()
}

// Cancel implements Handle.
func (ent *loopEntry) Cancel() {
	ent.release()
}

// Pending returns the number of callbacks neither cancelled nor finished.
func (loop *Loop) Pending() int {
	loop.mutex.Lock()
	defer loop.mutex.Unlock()

	return loop.active
}

// Run dispatches expired callbacks until none remain pending, or the
// context is done.
func (loop *Loop) Run(ctx context.Context) (err error) {
	for {
		loop.mutex.Lock()
		due := loop.queue
		loop.queue = nil
		idle := loop.active == 0
		loop.mutex.Unlock()

		if len(due) == 0 {
			if idle {
				return
			}
			select {
			case <-ctx.Done():
				err = ctx.Err()
				return
			case <-loop.wake:
			}
			continue
		}

		for _, ent := range due {
			if ent.done.Load() {
				continue
			}
			ent.fn()
			if !ent.repeat {
				ent.release()
				continue
			}
			loop.mutex.Lock()
			if !ent.done.Load() {
				ent.arm()
			}
			loop.mutex.Unlock()
		}

		err = ctx.Err()
		if err != nil {
			return
		}
	}
}
