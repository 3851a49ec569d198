package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	assert := assert.New(t)

	m := &Manual{}
	var order []string

	m.Schedule(func() { order = append(order, "b") }, 20*time.Millisecond, false)
	m.Schedule(func() { order = append(order, "a") }, 10*time.Millisecond, false)
	h := m.Schedule(func() { order = append(order, "x") }, 15*time.Millisecond, false)
	assert.Equal(3, m.Pending())

	h.Cancel()
	h.Cancel()
	assert.Equal(2, m.Pending())

	assert.Equal(1, m.Advance(10*time.Millisecond))
	assert.Equal([]string{"a"}, order)
	assert.Equal(10*time.Millisecond, m.Now)

	assert.True(m.Step())
	assert.Equal([]string{"a", "b"}, order)
	assert.Equal(20*time.Millisecond, m.Now)

	assert.False(m.Step())
	assert.Equal(0, m.Pending())
}

func TestManual_Repeat(t *testing.T) {
	assert := assert.New(t)

	m := &Manual{}
	count := 0

	var h Handle
	h = m.Schedule(func() {
		count++
		if count == 3 {
			h.Cancel()
		}
	}, time.Millisecond, true)

	assert.Equal(1, m.Advance(5*time.Millisecond))
	assert.Equal(1, m.Pending())

	assert.True(m.Step())
	assert.True(m.Step())
	assert.Equal(3, count)
	assert.Equal(0, m.Pending())
}

func TestManual_Reschedule(t *testing.T) {
	assert := assert.New(t)

	m := &Manual{}
	count := 0

	var again func()
	again = func() {
		count++
		m.Schedule(again, 0, false)
	}
	m.Schedule(again, 0, false)

	assert.Equal(1, m.Advance(0))
	assert.Equal(1, m.Advance(0))
	assert.Equal(2, count)
	assert.Equal(1, m.Pending())
}

func TestLoop(t *testing.T) {
	assert := assert.New(t)

	loop := NewLoop()
	var order []int

	loop.Schedule(func() { order = append(order, 2) }, 20*time.Millisecond, false)
	loop.Schedule(func() { order = append(order, 1) }, time.Millisecond, false)
	h := loop.Schedule(func() { order = append(order, 3) }, time.Hour, false)
	h.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := loop.Run(ctx)
	assert.NoError(err)
	assert.Equal([]int{1, 2}, order)
	assert.Equal(0, loop.Pending())
}

func TestLoop_Repeat(t *testing.T) {
	assert := assert.New(t)

	loop := NewLoop()
	count := 0

	var h Handle
	h = loop.Schedule(func() {
		count++
		if count == 5 {
			h.Cancel()
		}
	}, time.Millisecond, true)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(loop.Run(ctx))
	assert.Equal(5, count)
}

func TestLoop_Context(t *testing.T) {
	assert := assert.New(t)

	loop := NewLoop()
	ran := false
	loop.Schedule(func() { ran = true }, time.Hour, false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := loop.Run(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.False(ran)
	assert.Equal(1, loop.Pending())
}
