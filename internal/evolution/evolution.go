// Package evolution implements spec.md §4.5: the driver that
// sequences flow recalculation, advection, diffusion and isostatic
// correction over discrete time steps, and tracks whether the derived
// rasters are still consistent with the current DEM.
//
// Grounded in
// original_source/terrainlib/erosion.py's EvolutionModel and in
// generate.py's top-level loop (diffusion → advection →
// adjust_isostasy → calculate_flow per iteration), adapted to Go as an
// explicit struct with methods instead of a duck-typed class, the way
// the teacher's own stateful tool types
// (geospatialfiles/raster/whiteboxRaster.go) hold their buffers.
package evolution

import (
	"math"

	"github.com/gaelysam/mapgen-rivers/internal/diffusion"
	"github.com/gaelysam/mapgen-rivers/internal/erosion"
	"github.com/gaelysam/mapgen-rivers/internal/flow"
	"github.com/gaelysam/mapgen-rivers/internal/grid"
	"github.com/gaelysam/mapgen-rivers/internal/isostasy"
	"github.com/gaelysam/mapgen-rivers/internal/params"
)

// Params bundles the model's scalar/field coefficients, mirroring
// spec.md §9's configuration table.
type Params struct {
	K, M, D               params.Field
	SeaLevel              float64
	SeaLevelVariations     float64
	SeaLevelVariationsTime float64
	FlexRadius            float64
	FlowMethod            flow.Method
	FlowSeed              uint64
}

// Model is the evolution driver: it owns the DEM and every raster
// derived from it, and is the only thing allowed to mutate them
// (spec.md §7: operators take read-only views and the driver swaps
// results in).
type Model struct {
	Dem    grid.Elevation
	Lakes  grid.Elevation
	Dirs   *grid.DirGrid
	Rivers *grid.RiverGrid

	isostasyModel isostasy.Model
	params        Params
	flowUpToDate  bool
}

// New builds a model over an initial DEM. The flow rasters start
// stale (flow_uptodate = false) until CalculateFlow runs once.
func New(dem grid.Elevation, p Params) *Model {
	rows, cols := dem.Rows(), dem.Cols()
	return &Model{
		Dem:           dem,
		Lakes:         dem.Clone(),
		Dirs:          grid.NewDirGrid(rows, cols),
		Rivers:        grid.NewRiverGrid(rows, cols),
		isostasyModel: isostasy.New(dem, p.FlexRadius),
		params:        p,
		flowUpToDate:  false,
	}
}

// FlowUpToDate reports whether dirs/lakes/rivers still reflect the
// current DEM.
func (m *Model) FlowUpToDate() bool { return m.flowUpToDate }

// CalculateFlow resolves the current DEM's depressions, refreshing
// Dirs, Lakes and Rivers.
func (m *Model) CalculateFlow() {
	res := flow.Solve(m.Dem, m.params.FlowMethod, m.params.FlowSeed)
	m.Dirs, m.Lakes, m.Rivers = res.Dirs, res.Lakes, res.Rivers
	m.flowUpToDate = true
}

// Diffusion applies hillslope smoothing over time t.
func (m *Model) Diffusion(t float64) {
	m.Dem = diffusion.Diffuse(m.Dem, t, m.params.D)
	m.flowUpToDate = false
}

// Advection erodes the DEM along the flow network over time t using
// the configured constant sea level. It requires a fresh flow solve;
// the caller is responsible for having called CalculateFlow since the
// last DEM mutation (spec.md §4.5).
func (m *Model) Advection(t float64) {
	m.advectAt(t, m.params.SeaLevel)
}

func (m *Model) advectAt(t, seaLevel float64) {
	filled := maxGrid(m.Dem, m.Lakes)
	eroded := erosion.Advect(filled, m.Dirs, m.Rivers, t, m.params.K, m.params.M, seaLevel)
	m.Dem = minGrid(eroded, m.Dem)
	m.flowUpToDate = false
}

// AdjustIsostasy nudges the DEM toward its long-wavelength reference
// shape. rate scales the correction: 0 is a no-op and 1 applies the
// full correction. There is no default; callers pass the rate
// explicitly.
func (m *Model) AdjustIsostasy(rate float64) {
	m.Dem = m.isostasyModel.Adjust(m.Dem, rate)
	m.flowUpToDate = false
}

// currentSeaLevel applies the optional sinusoidal modulation (spec.md
// §9's sea_level_variations / sea_level_variations_time), evaluated at
// iteration index i. With no variation configured it degenerates to
// the constant sea level.
func (m *Model) currentSeaLevel(i int) float64 {
	if m.params.SeaLevelVariations == 0 {
		return m.params.SeaLevel
	}
	period := m.params.SeaLevelVariationsTime
	if period <= 0 {
		period = 1
	}
	phase := 2 * math.Pi * float64(i) / period
	return m.params.SeaLevel + m.params.SeaLevelVariations*math.Sin(phase)
}

// Run calculates flow once, then executes the per-iteration sequence
// (diffusion → calculate_flow → advection → adjust_isostasy →
// calculate_flow) niter times with dt = time/niter, so advection always
// runs on fresh flow and the returned model's dirs/lakes/rivers are
// guaranteed fresh.
func (m *Model) Run(time float64, niter int, isostasyRate float64) {
	if niter <= 0 {
		return
	}
	dt := time / float64(niter)
	m.CalculateFlow()

	for i := 0; i < niter; i++ {
		m.Diffusion(dt)
		m.CalculateFlow()
		m.advectAt(dt, m.currentSeaLevel(i))
		m.AdjustIsostasy(isostasyRate)
		m.CalculateFlow()
	}
}

func maxGrid(a, b grid.Elevation) grid.Elevation {
	rows, cols := a.Rows(), a.Cols()
	out := grid.NewElevation(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := a.At(r, c)
			if bv := b.At(r, c); bv > v {
				v = bv
			}
			out.Set(r, c, v)
		}
	}
	return out
}

func minGrid(a, b grid.Elevation) grid.Elevation {
	rows, cols := a.Rows(), a.Cols()
	out := grid.NewElevation(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := a.At(r, c)
			if bv := b.At(r, c); bv < v {
				v = bv
			}
			out.Set(r, c, v)
		}
	}
	return out
}
