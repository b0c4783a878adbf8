package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFractalIsDeterministicForAFixedSeed(t *testing.T) {
	a := NewFractal(1, 4, 0.6, 2.0)
	b := NewFractal(1, 4, 0.6, 2.0)

	assert.Equal(t, a.Sample2D(1.3, 4.7), b.Sample2D(1.3, 4.7))
}

func TestFractalDifferentSeedsDiffer(t *testing.T) {
	a := NewFractal(1, 4, 0.6, 2.0)
	b := NewFractal(2, 4, 0.6, 2.0)

	assert.NotEqual(t, a.Sample2D(1.3, 4.7), b.Sample2D(1.3, 4.7))
}

func TestGridProducesRequestedShape(t *testing.T) {
	f := NewFractal(1, 3, 0.6, 2.0)
	out := f.Grid(4, 5, 100, 10, 2)
	require.Len(t, out, 20)
}

func TestGridAppliesVerticalScaleAndOffset(t *testing.T) {
	flat := NewFractal(1, 1, 0.6, 2.0)
	out := flat.Grid(2, 2, 100, 0, 3)
	for _, v := range out {
		assert.InDelta(t, 3.0, v, 1e-9)
	}
}
