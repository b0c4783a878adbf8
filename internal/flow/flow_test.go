package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaelysam/mapgen-rivers/internal/grid"
)

func TestSolveDispatchesByMethod(t *testing.T) {
	dem := randomDEM(5, 5, 3)

	pf := Solve(dem, MethodPriorityFlood, 1)
	for c := 0; c < 5; c++ {
		assert.NotEqual(t, grid.DirNone, pf.Dirs.At(4, c))
	}

	sr := Solve(dem, MethodSemirandom, 1)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			assertReachesBoundary(t, sr.Dirs, r, c, 5, 5)
		}
	}
}

func TestSolveDefaultsToPriorityFlood(t *testing.T) {
	dem := grid.NewElevationFrom(3, 3, make([]float64, 9))
	a := Solve(dem, Method("unknown"), 1)
	b := PriorityFlood(dem, 1, TieBreakNoise)

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.Equal(t, b.Dirs.At(r, c), a.Dirs.At(r, c))
		}
	}
}
