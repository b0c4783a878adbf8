// Package erosion implements spec.md §4.2: the advection-based river
// erosion operator that propagates elevations upstream along the flow
// network, modeling erosion waves carried by water flux.
//
// Grounded in original_source/terrainlib/erosion.py's advection(): a
// per-cell downstream streamline walk bounded by a per-cell crossing
// time, with no counterpart in the teacher repo (jblindsay-go-spatial
// computes flow accumulation but never an erosion-rate field), so the
// loop structure follows the teacher's row/col raster-scan idiom
// (tools/d8FlowAccumulation.go) applied to this new per-cell contract.
package erosion

import (
	"math"

	"github.com/gaelysam/mapgen-rivers/internal/grid"
	"github.com/gaelysam/mapgen-rivers/internal/params"
)

// Advect returns a new elevation grid where every cell's value has
// been replaced by the elevation found by walking time units
// downstream along the flow network, linearly interpolating between
// the two cells straddling the walk's endpoint. dem should already be
// the lake-filled surface (max(dem, lakes)) per the evolution driver's
// contract (spec.md §4.5).
func Advect(dem grid.Elevation, dirs *grid.DirGrid, rivers *grid.RiverGrid, time float64, k, m params.Field, seaLevel float64) grid.Elevation {
	rows, cols := dem.Rows(), dem.Cols()
	out := grid.NewElevation(rows, cols)

	crossTime := func(r, c int) float64 {
		flux := float64(rivers.At(r, c))
		rate := k.At(r, c) * math.Pow(flux, m.At(r, c))
		if rate <= 0 {
			return math.Inf(1)
		}
		return 1 / rate
	}
	elev := func(r, c int) float64 {
		v := dem.At(r, c)
		if v < seaLevel {
			return seaLevel
		}
		return v
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r0, c0 := y, x
			r1, c1 := y, x
			remaining := time

			for {
				d := dirs.At(r0, c0)
				if d == grid.DirNone {
					remaining = 0
					r1, c1 = r0, c0
					break
				}
				nr, nc := r0+grid.DY[d], c0+grid.DX[d]
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					// dirs keeps every boundary cell pointing outward
					// (DESIGN.md's canonical convention) rather than
					// zeroed, so the walk itself must treat a step that
					// would leave the grid as trapped, the same
					// termination a direction-0 hit gives.
					remaining = 0
					r1, c1 = r0, c0
					break
				}
				r1, c1 = nr, nc

				ct := crossTime(r0, c0)
				if remaining <= ct {
					break
				}
				remaining -= ct
				r0, c0 = r1, c1
			}

			ct := crossTime(r0, c0)
			var frac float64
			if math.IsInf(ct, 1) {
				frac = 0
			} else {
				frac = remaining / ct
			}
			out.Set(y, x, frac*elev(r1, c1)+(1-frac)*elev(r0, c0))
		}
	}

	return out
}
