package schedule

import (
	"slices"
	"time"
)

// Manual is a deterministic Scheduler driven explicitly by Step and
// Advance, on virtual time.
type Manual struct {
	Now time.Duration // Virtual time.

	entries []*manualEntry
	seq     int
}

type manualEntry struct {
	manual *Manual
	fn     func()
	delay  time.Duration
	repeat bool
	due    time.Duration
	seq    int
	cancel bool
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(fn func(), delay time.Duration, repeat bool) Handle {
	ent := &manualEntry{
		manual: m,
		fn:     fn,
		delay:  delay,
		repeat: repeat,
	}
	m.add(ent)

	return ent
}

func (m *Manual) add(ent *manualEntry) {
	ent.due = m.Now + ent.delay
	ent.seq = m.seq
	m.seq++
	m.entries = append(m.entries, ent)
}

// Cancel implements Handle.
func (ent *manualEntry) Cancel() {
	m := ent.manual
	ent.cancel = true
	m.entries = slices.DeleteFunc(m.entries, func(e *manualEntry) bool { return e == ent })
}

// Pending returns the number of scheduled callbacks.
func (m *Manual) Pending() int {
	return len(m.entries)
}

// next returns the index of the earliest due entry, or -1.
func (m *Manual) next() (index int) {
	index = -1
	for n, ent := range m.entries {
		if index < 0 {
			index = n
			continue
		}
		best := m.entries[index]
		if ent.due < best.due || (ent.due == best.due && ent.seq < best.seq) {
			index = n
		}
	}

	return
}

// run removes and runs the entry at index.
func (m *Manual) run(index int) {
	ent := m.entries[index]
	m.entries = slices.Delete(m.entries, index, index+1)

	if ent.due > m.Now {
		m.Now = ent.due
	}

	ent.fn()

	if ent.repeat && !ent.cancel {
		m.add(ent)
	}
}

// Step runs the earliest due callback, advancing virtual time to its due
// time. Returns false if nothing is scheduled.
func (m *Manual) Step() bool {
	index := m.next()
	if index < 0 {
		return false
	}

	m.run(index)

	return true
}

// Advance moves virtual time forward by d, running the callbacks due by
// then. Callbacks scheduled while advancing are left for later calls.
// Returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) (count int) {
	target := m.Now + d
	limit := m.seq

	for {
		index := -1
		for n, ent := range m.entries {
			if ent.due > target || ent.seq >= limit {
				continue
			}
			if index < 0 || ent.due < m.entries[index].due ||
				(ent.due == m.entries[index].due && ent.seq < m.entries[index].seq) {
				index = n
			}
		}
		if index < 0 {
			break
		}
		m.run(index)
		count++
	}

	m.Now = target

	return
}
