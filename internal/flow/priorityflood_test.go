package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaelysam/mapgen-rivers/internal/grid"
)

func TestPriorityFloodBorderPointsOutward(t *testing.T) {
	dem := grid.NewElevationFrom(4, 4, make([]float64, 16))
	res := PriorityFlood(dem, 1, 0)

	// Non-corner border cells keep the direction their own edge presets.
	for c := 1; c < 3; c++ {
		assert.Equal(t, grid.DirS, res.Dirs.At(3, c))
		assert.Equal(t, grid.DirN, res.Dirs.At(0, c))
	}
	for r := 1; r < 3; r++ {
		assert.Equal(t, grid.DirE, res.Dirs.At(r, 3))
		assert.Equal(t, grid.DirW, res.Dirs.At(r, 0))
	}
	// Corner precedence south -> east -> north -> west: the last write
	// wins at each shared corner.
	assert.Equal(t, grid.DirN, res.Dirs.At(0, 3)) // NE corner: north wins over east
	assert.Equal(t, grid.DirE, res.Dirs.At(3, 3)) // SE corner: east wins over south
	assert.Equal(t, grid.DirW, res.Dirs.At(3, 0)) // SW corner: west wins over south
	assert.Equal(t, grid.DirW, res.Dirs.At(0, 0)) // NW corner: west wins over north
}

func TestPriorityFloodMonotonicSlopeFlowsTowardLowEdge(t *testing.T) {
	const rows, cols = 5, 4
	data := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data[r*cols+c] = float64(r)
		}
	}
	dem := grid.NewElevationFrom(rows, cols, data)
	res := PriorityFlood(dem, 1, 0)

	// Border cells keep their outward presets (see
	// TestPriorityFloodBorderPointsOutward). Every interior cell drains
	// north, so each interior column's top border cell collects the
	// rows-1 cells above the bottom row, whose cell flows south off-grid.
	for r := 1; r < rows-1; r++ {
		for c := 1; c < cols-1; c++ {
			assert.Equal(t, grid.DirN, res.Dirs.At(r, c), "cell (%d,%d)", r, c)
		}
	}
	for c := 1; c < cols-1; c++ {
		assert.Equal(t, uint32(rows-1), res.Rivers.At(0, c))
	}
}

func TestPriorityFloodFillsDepressionToSpillElevation(t *testing.T) {
	// A 3x3 grid with a pit in the middle surrounded by a rim, open on
	// one side to a lower border elevation. The pit must fill to the
	// rim's spill elevation, never below it.
	const rows, cols = 3, 3
	data := []float64{
		5, 5, 5,
		5, 0, 5,
		5, 5, 1, // bottom-right corner is the lowest border cell
	}
	dem := grid.NewElevationFrom(rows, cols, data)
	res := PriorityFlood(dem, 1, 0)

	require.GreaterOrEqual(t, res.Lakes.At(1, 1), dem.At(1, 1))
	assert.Equal(t, 5.0, res.Lakes.At(1, 1))
}

func TestPriorityFloodEveryCellReachesBoundaryOutward(t *testing.T) {
	const rows, cols = 6, 7
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64((i*37 + 11) % 23)
	}
	dem := grid.NewElevationFrom(rows, cols, data)
	res := PriorityFlood(dem, 7, TieBreakNoise)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			assertReachesBoundary(t, res.Dirs, r, c, rows, cols)
		}
	}
}

// assertReachesBoundary walks the flow-direction chain from (r, c) and
// fails if it does not exit the grid within rows*cols steps (a cycle
// would indicate a broken depression-filling invariant, spec.md §8
// invariant 1).
func assertReachesBoundary(t *testing.T, dirs *grid.DirGrid, r, c, rows, cols int) {
	t.Helper()
	for steps := 0; steps <= rows*cols; steps++ {
		d := dirs.At(r, c)
		require.NotEqual(t, grid.DirNone, d, "cell (%d,%d) has no direction", r, c)
		nr, nc := r+grid.DY[d], c+grid.DX[d]
		if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
			return
		}
		r, c = nr, nc
	}
	t.Fatalf("flow chain starting at did not reach the boundary within %d steps", rows*cols)
}
