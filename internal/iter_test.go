package internal

import (
	"iter"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect[T1 any, T2 any](seq iter.Seq2[T1, T2]) (keys []T1, values []T2) {
	for k, v := range seq {
		keys = append(keys, k)
		values = append(values, v)
	}
	return
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2}

	keys, values := collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal([]string{"a", "b"}, keys)
	assert.Equal([]int{1, 2}, values)

	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeq2Limit(t *testing.T) {
	assert := assert.New(t)

	list := []string{"a", "b", "c"}

	keys, values := collect(IterSeq2Limit(slices.All(list), 2))
	assert.Equal([]int{0, 1}, keys)
	assert.Equal([]string{"a", "b"}, values)

	keys, _ = collect(IterSeq2Limit(slices.All(list), 5))
	assert.Equal([]int{0, 1, 2}, keys)

	keys, _ = collect(IterSeq2Limit(slices.All(list), 0))
	assert.Empty(keys)
}
