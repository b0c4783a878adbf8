// Package params implements the tagged scalar-or-field variant that
// spec.md §9 asks for: K, m and d may each be a single number or a
// per-cell array in the original Python (plain duck typing on
// np.ndarray vs. float). A statically typed port needs an explicit
// variant instead, with a uniform per-cell accessor so the hot loops in
// erosion/diffusion never branch on which kind they hold.
package params

// Field is a per-cell (or scalar) parameter: either a single value
// applied to every cell, or a Y×X array of independent values.
type Field struct {
	scalar   float64
	isScalar bool
	data     []float64
	rows     int
	cols     int
}

// Scalar builds a Field that returns v for every cell.
func Scalar(v float64) Field {
	return Field{scalar: v, isScalar: true}
}

// Grid builds a Field backed by a per-cell Y×X array. data is row-major
// and must have length rows*cols.
func Grid(rows, cols int, data []float64) Field {
	if len(data) != rows*cols {
		panic("params: grid data length does not match rows*cols")
	}
	return Field{data: data, rows: rows, cols: cols}
}

// At resolves the field's value at (row, col). Out-of-range lookups on
// a grid-backed field return 0, the same bounds-safe convention
// grid.DirGrid.At and grid.RiverGrid.At use.
func (f Field) At(row, col int) float64 {
	if f.isScalar {
		return f.scalar
	}
	if row < 0 || row >= f.rows || col < 0 || col >= f.cols {
		return 0
	}
	return f.data[row*f.cols+col]
}

// IsScalar reports whether the field holds one value for the whole grid.
func (f Field) IsScalar() bool { return f.isScalar }

// Max returns the field's maximum value, used by the diffusion
// operator's sub-step count (N = ceil(d·t/diff_max), driven by the
// maximum of a per-cell d).
func (f Field) Max() float64 {
	if f.isScalar {
		return f.scalar
	}
	m := f.data[0]
	for _, v := range f.data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
