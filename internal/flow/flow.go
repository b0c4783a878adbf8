// Package flow implements spec.md §4.1: the depression-filling flow
// solver that produces, from a DEM, a per-cell flow direction grid, a
// lake-surface elevation grid, and a drainage accumulation grid, with
// every interior cell resolved to a finite path reaching a boundary
// cell that points outward.
//
// Two algorithms are provided, both grounded in the retrieval pack:
// PriorityFlood (the canonical form, grounded in the teacher's own
// tools/fillDepressions.go and in original_source/rivermapper.py's
// flow_dirs_lakes) and Boruvka (the linear-complexity alternative from
// Cordonnier et al. 2019, grounded in
// original_source/terrainlib/rivermapper.py).
package flow

import "github.com/gaelysam/mapgen-rivers/internal/grid"

// Method selects which flow algorithm Solve dispatches to.
type Method string

const (
	MethodPriorityFlood Method = "priority-flood"
	MethodSemirandom    Method = "semirandom"
)

// Result bundles the three rasters the flow solver produces.
type Result struct {
	Dirs   *grid.DirGrid
	Lakes  grid.Elevation
	Rivers *grid.RiverGrid
}

// Solve resolves dem's depressions using the requested method. seed
// drives the tie-break noise (priority-flood) or the probabilistic
// local-flow choice (semirandom); both are deterministic given a fixed
// seed, per spec.md §4.1 and §9 ("avoid process-wide RNG singletons").
func Solve(dem grid.Elevation, method Method, seed uint64) Result {
	switch method {
	case MethodSemirandom:
		return Boruvka(dem, seed)
	default:
		return PriorityFlood(dem, seed, TieBreakNoise)
	}
}
