// Package twist implements spec.md §4.6: the river-tension solver that
// displaces every grid vertex sideways to make rendered river courses
// look like meandering elastic strings rather than staircased raster
// edges.
//
// Grounded directly in original_source/terrainlib/bounds.py
// (make_bounds, get_fixed, twist) — a small, self-contained numerical
// routine with no teacher equivalent, so it is ported in the teacher's
// loop-heavy style (structures.RectangularArrayFloat64-like flat
// row/col iteration) rather than vectorized, since the teacher never
// reaches for a vectorization library either.
package twist

import (
	"math"

	"github.com/gaelysam/mapgen-rivers/internal/grid"
)

// DefaultStep and DefaultIterations match the values original_source
// uses when it calls twist() with no overrides.
const (
	DefaultStep       = 0.1
	DefaultIterations = 5
)

// Result holds the per-vertex horizontal displacement, normally in
// [-0.5, +0.5), one value per cell of the dirs/rivers grid.
type Result struct {
	OffsetX [][]float64
	OffsetY [][]float64
}

func grid2D(rows, cols int) [][]float64 {
	g := make([][]float64, rows)
	for r := range g {
		g[r] = make([]float64, cols)
	}
	return g
}

// Bounds builds the signed per-edge flux arrays: boundsH has one entry
// per horizontal edge (shape rows × cols-1), boundsV one per vertical
// edge (shape rows-1 × cols). Positive sign means the flux runs in the
// increasing-coordinate direction along that edge (spec.md §4.6).
func Bounds(dirs *grid.DirGrid, rivers *grid.RiverGrid) (boundsH, boundsV [][]float64) {
	rows, cols := dirs.Rows(), dirs.Cols()

	boundsH = grid2D(rows, cols-1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols-1; c++ {
			switch {
			case dirs.At(r, c) == grid.DirE:
				boundsH[r][c] = float64(rivers.At(r, c))
			case dirs.At(r, c+1) == grid.DirW:
				boundsH[r][c] = -float64(rivers.At(r, c+1))
			}
		}
	}

	boundsV = grid2D(rows-1, cols)
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols; c++ {
			switch {
			case dirs.At(r, c) == grid.DirS:
				boundsV[r][c] = float64(rivers.At(r, c))
			case dirs.At(r+1, c) == grid.DirN:
				boundsV[r][c] = -float64(rivers.At(r+1, c))
			}
		}
	}
	return boundsH, boundsV
}

// Fixed reports, per vertex, whether it must stay at offset (0, 0):
// either it sits on the grid border with its cell flowing outward
// through that edge, or no neighboring cell flows into it at all.
func Fixed(dirs *grid.DirGrid) [][]bool {
	rows, cols := dirs.Rows(), dirs.Cols()
	borders := make([][]bool, rows)
	donors := make([][]bool, rows)
	for r := range borders {
		borders[r] = make([]bool, cols)
		donors[r] = make([]bool, cols)
	}

	for c := 0; c < cols; c++ {
		if dirs.At(rows-1, c) == grid.DirS {
			borders[rows-1][c] = true
		}
		if dirs.At(0, c) == grid.DirN {
			borders[0][c] = true
		}
	}
	for r := 0; r < rows; r++ {
		if dirs.At(r, cols-1) == grid.DirE {
			borders[r][cols-1] = true
		}
		if dirs.At(r, 0) == grid.DirW {
			borders[r][0] = true
		}
	}

	for r := 1; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if dirs.At(r-1, c) == grid.DirS {
				donors[r][c] = true
			}
		}
	}
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols; c++ {
			if dirs.At(r+1, c) == grid.DirN {
				donors[r][c] = true
			}
		}
	}
	for r := 0; r < rows; r++ {
		for c := 1; c < cols; c++ {
			if dirs.At(r, c-1) == grid.DirE {
				donors[r][c] = true
			}
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols-1; c++ {
			if dirs.At(r, c+1) == grid.DirW {
				donors[r][c] = true
			}
		}
	}

	fixed := make([][]bool, rows)
	for r := 0; r < rows; r++ {
		fixed[r] = make([]bool, cols)
		for c := 0; c < cols; c++ {
			fixed[r][c] = borders[r][c] || !donors[r][c]
		}
	}
	return fixed
}

// Solve relaxes the per-vertex offsets for n iterations with step d,
// modeling each edge as a spring whose tension is proportional to its
// flux magnitude: big rivers resist lateral force more weakly per unit
// tension, so heavier flows bend smoother curves.
func Solve(boundsH, boundsV [][]float64, fixed [][]bool, d float64, n int) Result {
	rows := len(fixed)
	cols := 0
	if rows > 0 {
		cols = len(fixed[0])
	}

	offsetX := grid2D(rows, cols)
	offsetY := grid2D(rows, cols)

	for iter := 0; iter < n; iter++ {
		forceX := relax(boundsH, boundsV, offsetX, rows, cols, true)
		forceY := relax(boundsV, boundsH, offsetY, rows, cols, false)

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if fixed[r][c] {
					continue
				}
				length := math.Hypot(forceX[r][c], forceY[r][c])
				if length == 0 {
					length = 1
				}
				coeff := d / length
				offsetX[r][c] += forceX[r][c] * coeff
				offsetY[r][c] += forceY[r][c] * coeff
			}
		}
	}

	return Result{OffsetX: offsetX, OffsetY: offsetY}
}

// relax computes one axis's force grid. primary is the edge-flux array
// along the offset's own axis (longitudinal tension, stiffened by the
// offset gradient along that same axis); secondary is the flux array
// across the perpendicular axis (transverse shear, driven by the
// offset gradient along THAT axis). alongCols selects whether
// "primary" runs column-wise (offsetX's case) or row-wise (offsetY's).
func relax(primary, secondary [][]float64, offset [][]float64, rows, cols int, alongCols bool) [][]float64 {
	force := grid2D(rows, cols)

	if alongCols {
		// primary = boundsH (rows x cols-1), secondary = boundsV (rows-1 x cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols-1; c++ {
				diff := offset[r][c+1] - offset[r][c]
				fl := math.Abs(primary[r][c]) * (1 + diff)
				force[r][c] += fl
				force[r][c+1] -= fl
			}
		}
		for r := 0; r < rows-1; r++ {
			for c := 0; c < cols; c++ {
				diff := offset[r+1][c] - offset[r][c]
				ft := math.Abs(secondary[r][c]) * diff
				force[r][c] += ft
				force[r+1][c] -= ft
			}
		}
	} else {
		// primary = boundsV (rows-1 x cols), secondary = boundsH (rows x cols-1)
		for r := 0; r < rows-1; r++ {
			for c := 0; c < cols; c++ {
				diff := offset[r+1][c] - offset[r][c]
				fl := math.Abs(primary[r][c]) * (1 + diff)
				force[r][c] += fl
				force[r+1][c] -= fl
			}
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols-1; c++ {
				diff := offset[r][c+1] - offset[r][c]
				ft := math.Abs(secondary[r][c]) * diff
				force[r][c] += ft
				force[r][c+1] -= ft
			}
		}
	}

	return force
}
