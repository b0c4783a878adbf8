package twist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaelysam/mapgen-rivers/internal/grid"
)

// straightRiver builds a 3x3 grid where every cell in column 1 flows
// south down the middle and out the bottom edge, with the rest of the
// grid's cells flowing outward at their own nearest border (so Fixed
// only needs to single out the unforced interior).
func straightRiver() (*grid.DirGrid, *grid.RiverGrid) {
	dirs := grid.NewDirGrid(3, 3)
	rivers := grid.NewRiverGrid(3, 3)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rivers.Set(r, c, 1)
		}
	}
	dirs.Set(0, 1, grid.DirS)
	dirs.Set(1, 1, grid.DirS)
	dirs.Set(2, 1, grid.DirS)
	rivers.Set(1, 1, 2)
	rivers.Set(2, 1, 3)

	dirs.Set(0, 0, grid.DirW)
	dirs.Set(1, 0, grid.DirW)
	dirs.Set(2, 0, grid.DirW)
	dirs.Set(0, 2, grid.DirE)
	dirs.Set(1, 2, grid.DirE)
	dirs.Set(2, 2, grid.DirE)
	return dirs, rivers
}

func TestBoundsSignsMatchFlowDirection(t *testing.T) {
	dirs, rivers := straightRiver()
	_, boundsV := Bounds(dirs, rivers)

	// The middle column flows south: boundsV[r][1] should be positive
	// (flux running in the increasing-row direction).
	for r := 0; r < 2; r++ {
		assert.Greater(t, boundsV[r][1], 0.0)
	}
}

func TestBoundsSignFlipsWithFlowDirection(t *testing.T) {
	rivers := grid.NewRiverGrid(1, 2)
	rivers.Set(0, 0, 3)
	rivers.Set(0, 1, 5)

	east := grid.NewDirGrid(1, 2)
	east.Set(0, 0, grid.DirE)
	boundsH, _ := Bounds(east, rivers)
	assert.Equal(t, 3.0, boundsH[0][0])

	west := grid.NewDirGrid(1, 2)
	west.Set(0, 1, grid.DirW)
	boundsH, _ = Bounds(west, rivers)
	assert.Equal(t, -5.0, boundsH[0][0])
}

func TestFixedMarksBorderOutflowAndNoDonorCells(t *testing.T) {
	dirs, _ := straightRiver()
	fixed := Fixed(dirs)

	// Every cell in this grid either flows outward at the border or has
	// no donor, except the middle column's interior cell, which both
	// receives a donor from upstream and isn't itself on the border —
	// the one vertex the relaxation is free to move.
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := !(r == 1 && c == 1)
			assert.Equal(t, want, fixed[r][c], "cell (%d,%d)", r, c)
		}
	}
}

func TestSolveLeavesFixedVerticesAtZero(t *testing.T) {
	dirs, rivers := straightRiver()
	boundsH, boundsV := Bounds(dirs, rivers)
	fixed := Fixed(dirs)

	result := Solve(boundsH, boundsV, fixed, DefaultStep, DefaultIterations)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if fixed[r][c] {
				assert.Equal(t, 0.0, result.OffsetX[r][c])
				assert.Equal(t, 0.0, result.OffsetY[r][c])
			}
		}
	}
}

func TestSolveZeroIterationsIsIdentity(t *testing.T) {
	dirs, rivers := straightRiver()
	boundsH, boundsV := Bounds(dirs, rivers)
	fixed := Fixed(dirs)

	result := Solve(boundsH, boundsV, fixed, DefaultStep, 0)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			require.Equal(t, 0.0, result.OffsetX[r][c])
			require.Equal(t, 0.0, result.OffsetY[r][c])
		}
	}
}
