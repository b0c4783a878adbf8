package evolution

import (
	"gonum.org/v1/gonum/floats"

	"github.com/gaelysam/mapgen-rivers/internal/grid"
)

// Stats summarizes a finished model's surface composition and
// elevation distribution, the supplemented-feature analogue of
// original_source/terrainlib/view.py's stats() (that one prints
// directly; this one returns a value so the CLI layer decides how to
// log it). floats.Sum/Min/Max come from gonum, reused here rather than
// hand-rolled since the evolution package already depends on gonum's
// mat package for the elevation grid itself.
type Stats struct {
	Rows, Cols int

	ContinentFraction float64
	LakeFraction      float64
	OceanFraction     float64

	MeanElevation     float64
	MeanOceanDepth    float64
	MeanContinentElev float64
	MinElevation      float64
	MaxElevation      float64
}

// ComputeStats inspects dem against lakes the way the invariant checks
// in spec.md §8 do: continent is wherever the lake-filled surface
// reaches sea level or above, and a lake cell is a continent cell
// where the lake surface sits strictly above bedrock.
func ComputeStats(dem, lakes grid.Elevation, seaLevel float64) Stats {
	rows, cols := dem.Rows(), dem.Cols()
	surface := float64(rows * cols)

	demFlat := make([]float64, 0, rows*cols)
	var continentSurface, lakeSurface float64
	var oceanSum, continentSum float64

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := dem.At(r, c)
			l := lakes.At(r, c)
			demFlat = append(demFlat, d)

			filled := d
			if l > filled {
				filled = l
			}
			isContinent := filled >= seaLevel
			if isContinent {
				continentSurface++
				continentSum += d
				if l > d {
					lakeSurface++
				}
			} else {
				oceanSum += d
			}
		}
	}

	oceanSurface := surface - continentSurface
	meanOceanDepth := 0.0
	if oceanSurface > 0 {
		meanOceanDepth = oceanSum / oceanSurface
	}
	meanContinentElev := 0.0
	if continentSurface > 0 {
		meanContinentElev = continentSum / continentSurface
	}

	return Stats{
		Rows: rows, Cols: cols,
		ContinentFraction: continentSurface / surface,
		LakeFraction:      lakeSurface / surface,
		OceanFraction:     oceanSurface / surface,
		MeanElevation:     floats.Sum(demFlat) / surface,
		MeanOceanDepth:    meanOceanDepth,
		MeanContinentElev: meanContinentElev,
		MinElevation:      floats.Min(demFlat),
		MaxElevation:      floats.Max(demFlat),
	}
}
