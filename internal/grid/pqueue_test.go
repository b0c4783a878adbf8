package grid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloodQueuePopOrdersByAltThenAltMax(t *testing.T) {
	q := NewFloodQueue(4)
	q.Push(0, 0, 5, 9)
	q.Push(0, 1, 2, 1)
	q.Push(0, 2, 2, 0)
	q.Push(0, 3, 3, 0)

	item, alt, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2.0, alt)
	assert.Equal(t, 0, item.Col) // altmax 0 beats altmax 1 at the same alt

	item, alt, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2.0, alt)
	assert.Equal(t, 1, item.Col)

	item, alt, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 3.0, alt)
	assert.Equal(t, 3, item.Col)

	item, alt, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 5.0, alt)
	assert.Equal(t, 0, item.Col)
}

func TestFloodQueuePopEmptyReturnsFalse(t *testing.T) {
	q := NewFloodQueue(0)
	_, _, ok := q.Pop()
	assert.False(t, ok)
}

func TestFloodQueueMaintainsHeapOrderUnderRandomPushPop(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	q := NewFloodQueue(100)
	for i := 0; i < 200; i++ {
		q.Push(i, i, rng.Float64()*100, rng.Float64()*100)
	}

	last := -1.0
	for q.Len() > 0 {
		_, alt, ok := q.Pop()
		require.True(t, ok)
		assert.GreaterOrEqual(t, alt, last)
		last = alt
	}
}
