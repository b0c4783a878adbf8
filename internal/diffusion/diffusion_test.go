package diffusion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaelysam/mapgen-rivers/internal/grid"
	"github.com/gaelysam/mapgen-rivers/internal/params"
)

func TestDiffuseLeavesBorderUntouched(t *testing.T) {
	dem := grid.NewElevationFrom(4, 4, []float64{
		1, 1, 1, 1,
		1, 10, 0, 1,
		1, 0, 10, 1,
		1, 1, 1, 1,
	})
	out := Diffuse(dem, 1, params.Scalar(0.2))

	for c := 0; c < 4; c++ {
		assert.Equal(t, dem.At(0, c), out.At(0, c))
		assert.Equal(t, dem.At(3, c), out.At(3, c))
	}
	for r := 0; r < 4; r++ {
		assert.Equal(t, dem.At(r, 0), out.At(r, 0))
		assert.Equal(t, dem.At(r, 3), out.At(r, 3))
	}
}

func TestDiffuseSmoothsASpike(t *testing.T) {
	dem := grid.NewElevationFrom(3, 3, []float64{
		0, 0, 0,
		0, 10, 0,
		0, 0, 0,
	})
	out := Diffuse(dem, 1, params.Scalar(0.2))

	assert.Less(t, out.At(1, 1), dem.At(1, 1))
	// A spike can only diffuse outward, never invert into a pit deeper
	// than its neighbors started.
	assert.GreaterOrEqual(t, out.At(1, 1), 0.0)
}

func TestDiffuseZeroTimeIsIdentity(t *testing.T) {
	dem := grid.NewElevationFrom(3, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
	out := Diffuse(dem, 0, params.Scalar(0.2))
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, dem.At(r, c), out.At(r, c), 1e-9)
		}
	}
}

func TestDiffuseDoesNotMutateInput(t *testing.T) {
	dem := grid.NewElevationFrom(3, 3, []float64{
		0, 0, 0,
		0, 10, 0,
		0, 0, 0,
	})
	before := dem.At(1, 1)
	_ = Diffuse(dem, 1, params.Scalar(0.2))
	assert.Equal(t, before, dem.At(1, 1))
}

func TestGaussianBlurZeroSigmaIsIdentity(t *testing.T) {
	dem := grid.NewElevationFrom(2, 2, []float64{1, 2, 3, 4})
	out := GaussianBlur(dem, 0)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			assert.Equal(t, dem.At(r, c), out.At(r, c))
		}
	}
}

func TestGaussianBlurPreservesMass(t *testing.T) {
	dem := grid.NewElevationFrom(5, 5, []float64{
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 25, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
	})
	out := GaussianBlur(dem, 1.0)

	var before, after float64
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			before += dem.At(r, c)
			after += out.At(r, c)
		}
	}
	require.InDelta(t, before, after, 1e-6)
}

func TestReflectBoundaryMapping(t *testing.T) {
	assert.Equal(t, 0, reflect(-1, 5))
	assert.Equal(t, 1, reflect(-2, 5))
	assert.Equal(t, 4, reflect(5, 5))
	assert.Equal(t, 3, reflect(6, 5))
	assert.Equal(t, 2, reflect(2, 5))
	assert.Equal(t, 0, reflect(0, 1))
}

func TestDiffuseAcceptsPerCellField(t *testing.T) {
	dem := grid.NewElevationFrom(3, 3, []float64{
		0, 0, 0,
		0, 10, 0,
		0, 0, 0,
	})
	d := params.Grid(3, 3, []float64{
		0.2, 0.2, 0.2,
		0.2, 0.2, 0.2,
		0.2, 0.2, 0.2,
	})

	require.NotPanics(t, func() {
		out := Diffuse(dem, 1, d)
		assert.Less(t, out.At(1, 1), dem.At(1, 1))
	})
}

func TestDiffuseSubstepCountScalesWithDiffusivity(t *testing.T) {
	// A diffusivity well above DiffMax must still produce a finite,
	// non-NaN result (the sub-stepping loop must actually subdivide).
	dem := grid.NewElevationFrom(3, 3, []float64{
		0, 0, 0,
		0, 10, 0,
		0, 0, 0,
	})
	out := Diffuse(dem, 10, params.Scalar(5.0))
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			require.False(t, math.IsNaN(out.At(r, c)) || math.IsInf(out.At(r, c), 0))
		}
	}
}
