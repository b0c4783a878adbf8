// Package isostasy implements spec.md §4.4: a cheap proxy for
// lithospheric flexure, modeling a slow restoring force toward the
// terrain's initial long-wavelength shape.
//
// Grounded in original_source/terrainlib/erosion.py's
// EvolutionModel.define_isostasy / adjust_isostasy, reusing
// diffusion.GaussianBlur for the reference-blur step rather than
// reimplementing scipy.ndimage.gaussian_filter a second time.
package isostasy

import (
	"github.com/gaelysam/mapgen-rivers/internal/diffusion"
	"github.com/gaelysam/mapgen-rivers/internal/grid"
)

// Model holds the reference blurred elevation captured at construction
// (or explicit reset) and the flexure radius used for every blur.
type Model struct {
	Ref        grid.Elevation
	FlexRadius float64
}

// New captures dem's blurred shape as the reference isostatic
// elevation.
func New(dem grid.Elevation, flexRadius float64) Model {
	return Model{Ref: diffusion.GaussianBlur(dem, flexRadius), FlexRadius: flexRadius}
}

// Reset recaptures the reference elevation from dem, used when the
// driver wants a fresh baseline (e.g. after a large forced change).
func (m *Model) Reset(dem grid.Elevation) {
	m.Ref = diffusion.GaussianBlur(dem, m.FlexRadius)
}

// Adjust re-blurs dem and nudges it toward the reference by
// (ref - blurred) * rate, returning the corrected grid. rate == 0 is a
// no-op (spec.md §8 invariant 6); dem is left untouched.
func (m Model) Adjust(dem grid.Elevation, rate float64) grid.Elevation {
	blurred := diffusion.GaussianBlur(dem, m.FlexRadius)
	rows, cols := dem.Rows(), dem.Cols()
	out := grid.NewElevation(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			correction := (m.Ref.At(r, c) - blurred.At(r, c)) * rate
			out.Set(r, c, dem.At(r, c)+correction)
		}
	}
	return out
}
