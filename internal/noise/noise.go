// Package noise synthesizes the fractal initial terrain (the
// "noise-based initial terrain synthesis" spec.md §1 explicitly marks
// as an external collaborator, not part of the flow/erosion core, but
// still needed for a complete repo — spec.md's expansion brief).
//
// Grounded in
// leemwalker-thousand-worlds/tw-backend/internal/worldgen/geography/noise.go's
// PerlinGenerator wrapper, extended from a single-octave call into the
// fractal-sum-of-octaves loop original_source/generate.py builds
// around noise.snoise2 (octaves scaled to map size, persistence and
// lacunarity controlling each octave's amplitude/frequency falloff).
package noise

import "github.com/aquilax/go-perlin"

// Fractal wraps a seeded Perlin generator configured for fractal
// (multi-octave) sampling.
type Fractal struct {
	p           *perlin.Perlin
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewFractal builds a generator with octaves layers, each subsequent
// octave contributing persistence× the amplitude at lacunarity× the
// frequency of the one before it — the standard fractal-noise
// construction original_source/generate.py's noise parameters drive.
func NewFractal(seed int64, octaves int, persistence, lacunarity float64) *Fractal {
	return &Fractal{
		p:           perlin.NewPerlin(2, lacunarity, int32(octaves), seed),
		octaves:     octaves,
		persistence: persistence,
		lacunarity:  lacunarity,
	}
}

// Sample2D returns the fractal-summed noise value at (x, y), combining
// octaves layers of the underlying Perlin noise with amplitude
// persistence^i and frequency lacunarity^i at layer i.
func (f *Fractal) Sample2D(x, y float64) float64 {
	var sum, amplitude, frequency, norm float64
	amplitude = 1
	frequency = 1
	for i := 0; i < f.octaves; i++ {
		sum += amplitude * f.p.Noise2D(x*frequency, y*frequency)
		norm += amplitude
		amplitude *= f.persistence
		frequency *= f.lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// Grid fills a rows×cols elevation field by sampling Sample2D once per
// cell, scaled by vscale and offset by offset — the vertical-scale and
// baseline-elevation knobs original_source/generate.py exposes as
// config settings.
func (f *Fractal) Grid(rows, cols int, scale, vscale, offset float64) []float64 {
	out := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := float64(c) / scale
			y := float64(r) / scale
			out[r*cols+c] = f.Sample2D(x, y)*vscale + offset
		}
	}
	return out
}
