package flow

import "github.com/gaelysam/mapgen-rivers/internal/grid"

// Accumulate computes drainage accumulation from a resolved direction
// grid: every cell starts carrying one unit of water and passes it,
// plus everything it has received, to the cell its direction points
// at. Shared by both flow algorithms since accumulation only depends
// on the direction contract (every cell eventually reaches a boundary
// cell pointing off-grid), not on how the directions were produced.
//
// Grounded in the teacher's tools/d8FlowAccumulation.go: an iterative
// donor-count walk (push every zero-donor cell, decrement the
// downstream neighbor's donor count, and only advance into it once
// that count reaches zero) rather than recursive memoization, per
// spec.md §9's recursion-depth design note — a Y×X raster can be large
// enough that the naive recursive accumulate in
// original_source/rivermapper.py would blow the stack.
func Accumulate(dirs *grid.DirGrid) *grid.RiverGrid {
	rows, cols := dirs.Rows(), dirs.Cols()
	rivers := grid.NewRiverGrid(rows, cols)
	donors := make([]int32, rows*cols)
	idx := func(r, c int) int { return r*cols + c }

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := dirs.At(r, c)
			if d == grid.DirNone {
				continue
			}
			nr, nc := r+grid.DY[d], c+grid.DX[d]
			if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
				continue
			}
			donors[idx(nr, nc)]++
		}
	}

	queue := make([]int, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			rivers.Set(r, c, 1)
			if donors[idx(r, c)] == 0 {
				queue = append(queue, idx(r, c))
			}
		}
	}

	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		r, c := i/cols, i%cols

		for {
			d := dirs.At(r, c)
			if d == grid.DirNone {
				break
			}
			nr, nc := r+grid.DY[d], c+grid.DX[d]
			if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
				break
			}
			w := rivers.At(r, c)
			rivers.Set(nr, nc, rivers.At(nr, nc)+w)
			ni := idx(nr, nc)
			donors[ni]--
			if donors[ni] != 0 {
				break
			}
			r, c = nr, nc
		}
	}

	return rivers
}
