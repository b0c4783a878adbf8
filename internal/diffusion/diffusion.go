// Package diffusion implements spec.md §4.3: the hillslope smoothing
// operator applied once per evolution-driver iteration.
//
// Grounded in original_source/terrainlib/erosion.py's diffusion(): the
// iterated discrete-Laplacian form (spec.md §4.3(b)), sub-stepped so
// that no single update moves more "diffusive mass" across a cell
// than diff_max allows. The teacher has no diffusion operator of its
// own; the sub-stepping and stencil-application loop follow the same
// flat row/col raster-scan style used throughout
// structures/rectangular_array.go.
package diffusion

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gaelysam/mapgen-rivers/internal/grid"
	"github.com/gaelysam/mapgen-rivers/internal/params"
)

// DiffMax bounds how much diffusive mass a single sub-step may move
// across a cell, matching original_source's diff_max constant.
const DiffMax = 1.0

// Diffuse applies d-scaled diffusion to dem over time t and returns
// the result as a new grid; dem is left untouched (spec.md §6.3: an
// operator must either complete or leave its input untouched).
func Diffuse(dem grid.Elevation, t float64, d params.Field) grid.Elevation {
	rows, cols := dem.Rows(), dem.Cols()
	out := dem.Clone()

	diff := t * d.Max()
	niter := int(math.Ceil(diff / DiffMax))

	for i := 0; i < niter; i++ {
		step(out, rows, cols, t/float64(niter), d)
	}
	return out
}

// step applies one discrete-Laplacian sub-step in place over the
// interior cells; border cells are left untouched, matching the
// original's convolve2d(..., mode='valid') which never writes them.
func step(dem grid.Elevation, rows, cols int, dt float64, d params.Field) {
	lap := make([]float64, rows*cols)
	for r := 1; r < rows-1; r++ {
		for c := 1; c < cols-1; c++ {
			center := dem.At(r, c)
			sum := 0.25*dem.At(r-1, c) + 0.25*dem.At(r+1, c) + 0.25*dem.At(r, c-1) + 0.25*dem.At(r, c+1) - center
			lap[r*cols+c] = sum
		}
	}
	for r := 1; r < rows-1; r++ {
		for c := 1; c < cols-1; c++ {
			ddiff := d.At(r, c) * dt
			dem.Set(r, c, dem.At(r, c)+lap[r*cols+c]*ddiff)
		}
	}
}

// GaussianBlur applies the separable-Gaussian realization of diffusion
// (spec.md §4.3(a)), used by the isostasy operator and available here
// as the alternative, reference diffusion form. sigma = d * sqrt(t).
//
// A reflect-boundary Gaussian blur is a linear map on each axis, so it
// is expressed as dense conv matrices Gr (rows×rows) and Gc (cols×cols)
// applied as `Gr · dem · Gcᵀ` via gonum's mat.Dense — the same
// separable-matrix-multiplication shape mkelp-inmap's vargrid.go uses
// for its own grid smoothing, adopted here instead of a hand-rolled
// two-pass convolution loop.
func GaussianBlur(dem grid.Elevation, sigma float64) grid.Elevation {
	if sigma <= 0 {
		return dem.Clone()
	}
	rows, cols := dem.Rows(), dem.Cols()
	gr := convMatrix(rows, sigma)
	gc := convMatrix(cols, sigma)

	var tmp, result mat.Dense
	tmp.Mul(gr, dem.Dense)
	result.Mul(&tmp, gc.T())

	return grid.Elevation{Dense: &result}
}

// convMatrix builds the n×n dense convolution matrix for a 1-D
// reflect-boundary Gaussian blur of the given sigma: row i holds the
// kernel centered at i, with out-of-range taps folded back via
// scipy's 'reflect' rule (d c b a | a b c d | d c b a).
func convMatrix(n int, sigma float64) *mat.Dense {
	kernel := gaussianKernel(sigma)
	g := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for k, w := range kernel.weights {
			j := reflect(i+k-kernel.radius, n)
			g.Set(i, j, g.At(i, j)+w)
		}
	}
	return g
}

type gaussian struct {
	weights []float64
	radius  int
}

func gaussianKernel(sigma float64) gaussian {
	radius := int(4*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	weights := make([]float64, 2*radius+1)
	var total float64
	for i := range weights {
		x := float64(i - radius)
		w := math.Exp(-0.5 * x * x / (sigma * sigma))
		weights[i] = w
		total += w
	}
	for i := range weights {
		weights[i] /= total
	}
	return gaussian{weights: weights, radius: radius}
}

// reflect maps an out-of-range index back into [0, n) using scipy's
// 'reflect' boundary mode: (d c b a | a b c d | d c b a).
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return i
}
