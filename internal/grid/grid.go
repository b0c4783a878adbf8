// Package grid provides the rectangular raster types shared by every
// stage of the terrain pipeline: elevation grids backed by gonum's
// mat.Dense, and small integer/direction grids laid out the way
// structures.RectangularArrayFloat64 does in the teacher repo — a
// single flat backing slice sliced per row so the whole raster stays
// in one contiguous allocation.
package grid

import "gonum.org/v1/gonum/mat"

// Dir is a per-cell cardinal flow direction.
type Dir uint8

const (
	DirNone Dir = 0
	DirS    Dir = 1 // +Y
	DirE    Dir = 2 // +X
	DirN    Dir = 3 // -Y
	DirW    Dir = 4 // -X
)

// DY, DX give the row/column offset for each Dir, indexed by Dir itself
// (index 0 is unused since DirNone moves nowhere).
var (
	DY = [5]int{0, 1, 0, -1, 0}
	DX = [5]int{0, 0, 1, 0, -1}
)

// Elevation is a Y×X real-valued raster (dem, lakes, ref_isostasy, ...).
// It wraps mat.Dense so diffusion and isostasy can express the Gaussian
// blur as matrix multiplication instead of a hand-rolled convolution.
type Elevation struct {
	*mat.Dense
}

// NewElevation allocates a zeroed Y×X elevation grid.
func NewElevation(y, x int) Elevation {
	return Elevation{mat.NewDense(y, x, nil)}
}

// NewElevationFrom copies data (row-major, length y*x) into a new grid.
func NewElevationFrom(y, x int, data []float64) Elevation {
	cp := make([]float64, len(data))
	copy(cp, data)
	return Elevation{mat.NewDense(y, x, cp)}
}

// Rows and Cols split mat.Matrix's Dims into the two extents, named for
// callers that think in (Y, X) terrain coordinates.
func (e Elevation) Rows() int { r, _ := e.Dims(); return r }
func (e Elevation) Cols() int { _, c := e.Dims(); return c }

// Clone returns an independent copy of the grid.
func (e Elevation) Clone() Elevation {
	out := NewElevation(e.Rows(), e.Cols())
	out.Copy(e.Dense)
	return out
}

// DirGrid is a Y×X grid of flow directions.
type DirGrid struct {
	data       []Dir
	rows, cols int
}

func NewDirGrid(rows, cols int) *DirGrid {
	return &DirGrid{data: make([]Dir, rows*cols), rows: rows, cols: cols}
}

func (g *DirGrid) Rows() int { return g.rows }
func (g *DirGrid) Cols() int { return g.cols }

// At returns the direction at (row, col), or DirNone if out of bounds.
func (g *DirGrid) At(row, col int) Dir {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return DirNone
	}
	return g.data[row*g.cols+col]
}

func (g *DirGrid) Set(row, col int, d Dir) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.data[row*g.cols+col] = d
}

// RiverGrid is a Y×X grid of drainage accumulation counts.
type RiverGrid struct {
	data       []uint32
	rows, cols int
}

func NewRiverGrid(rows, cols int) *RiverGrid {
	return &RiverGrid{data: make([]uint32, rows*cols), rows: rows, cols: cols}
}

func (g *RiverGrid) Rows() int { return g.rows }
func (g *RiverGrid) Cols() int { return g.cols }

func (g *RiverGrid) At(row, col int) uint32 {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return 0
	}
	return g.data[row*g.cols+col]
}

func (g *RiverGrid) Set(row, col int, v uint32) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.data[row*g.cols+col] = v
}

// Sum totals every cell of the grid, not only the cells that flow
// off-grid.
func (g *RiverGrid) Sum() uint64 {
	var total uint64
	for _, v := range g.data {
		total += uint64(v)
	}
	return total
}
