// Package rasterio implements spec.md §6: the binary layout every
// output raster must satisfy, with no header beyond a companion ASCII
// "size" file, big-endian multi-byte samples, and an optional
// compress-iff-smaller zlib pass per file.
//
// Grounded in the teacher's own
// geospatialfiles/raster/whiteboxRaster.go (encoding/binary against an
// explicit byte order, the same bufio.Writer/Reader plumbing) and in
// geospatialfiles/raster/geotiff/geotiff.go, which already pulls in
// compress/zlib to read deflated GeoTIFF strips — the compression
// dependency this package reuses is the teacher's own, not a new one.
package rasterio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gaelysam/mapgen-rivers/internal/grid"
)

// ErrSizeMismatch is returned when a raster's encoded payload does not
// match rows*cols*elementSize for its declared element type.
var ErrSizeMismatch = errors.New("rasterio: payload size does not match declared grid dimensions")

// WriteSize writes the companion ASCII size file: rows then columns,
// newline-separated, matching original_source/generate.py's
// `'{:d}\n{:d}'.format(rows, cols)`.
func WriteSize(dir string, rows, cols int) error {
	return os.WriteFile(filepath.Join(dir, "size"), []byte(fmt.Sprintf("%d\n%d", rows, cols)), 0o644)
}

// ReadSize reads the companion size file back into (rows, cols).
func ReadSize(dir string) (rows, cols int, err error) {
	data, err := os.ReadFile(filepath.Join(dir, "size"))
	if err != nil {
		return 0, 0, err
	}
	if _, err := fmt.Sscanf(string(data), "%d\n%d", &rows, &cols); err != nil {
		return 0, 0, fmt.Errorf("rasterio: parsing size file: %w", err)
	}
	return rows, cols, nil
}

// WriteDEM writes an elevation grid as big-endian int16 samples
// (dem and lakes both use this encoding per spec.md §6).
func WriteDEM(path string, e grid.Elevation) error {
	rows, cols := e.Rows(), e.Cols()
	samples := make([]int16, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			samples[r*cols+c] = int16(e.At(r, c))
		}
	}
	return writeCompressed(path, binary.BigEndian, samples)
}

// ReadDEM reads a big-endian int16 raster back into an elevation grid.
func ReadDEM(path string, rows, cols int) (grid.Elevation, error) {
	samples := make([]int16, rows*cols)
	if err := readCompressed(path, binary.BigEndian, samples); err != nil {
		return grid.Elevation{}, err
	}
	data := make([]float64, rows*cols)
	for i, v := range samples {
		data[i] = float64(v)
	}
	return grid.NewElevationFrom(rows, cols, data), nil
}

// WriteDirs writes a direction grid as uint8 samples (no byte order
// applies to single-byte values, but we funnel through the same
// helper for a uniform compression policy).
func WriteDirs(path string, d *grid.DirGrid) error {
	rows, cols := d.Rows(), d.Cols()
	samples := make([]uint8, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			samples[r*cols+c] = uint8(d.At(r, c))
		}
	}
	return writeCompressed(path, binary.BigEndian, samples)
}

// ReadDirs reads a uint8 direction raster.
func ReadDirs(path string, rows, cols int) (*grid.DirGrid, error) {
	samples := make([]uint8, rows*cols)
	if err := readCompressed(path, binary.BigEndian, samples); err != nil {
		return nil, err
	}
	out := grid.NewDirGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Set(r, c, grid.Dir(samples[r*cols+c]))
		}
	}
	return out, nil
}

// WriteRivers writes a river-accumulation grid as big-endian uint32
// samples.
func WriteRivers(path string, rv *grid.RiverGrid) error {
	rows, cols := rv.Rows(), rv.Cols()
	samples := make([]uint32, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			samples[r*cols+c] = rv.At(r, c)
		}
	}
	return writeCompressed(path, binary.BigEndian, samples)
}

// ReadRivers reads a big-endian uint32 river-accumulation raster.
func ReadRivers(path string, rows, cols int) (*grid.RiverGrid, error) {
	samples := make([]uint32, rows*cols)
	if err := readCompressed(path, binary.BigEndian, samples); err != nil {
		return nil, err
	}
	out := grid.NewRiverGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Set(r, c, samples[r*cols+c])
		}
	}
	return out, nil
}

// WriteOffset writes a twist-solver offset grid as int8 samples,
// clamped and quantized the way generate.py does: floor(offset*256)
// clipped to [-128, 127].
func WriteOffset(path string, offset [][]float64) error {
	rows := len(offset)
	cols := 0
	if rows > 0 {
		cols = len(offset[0])
	}
	samples := make([]int8, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := int(floorInt(offset[r][c] * 256))
			if v < -128 {
				v = -128
			}
			if v > 127 {
				v = 127
			}
			samples[r*cols+c] = int8(v)
		}
	}
	return writeCompressed(path, binary.BigEndian, samples)
}

// ReadOffset reads an int8 offset raster back into cells of float64
// in units of 1/256 of a grid cell.
func ReadOffset(path string, rows, cols int) ([][]float64, error) {
	samples := make([]int8, rows*cols)
	if err := readCompressed(path, binary.BigEndian, samples); err != nil {
		return nil, err
	}
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			out[r][c] = float64(samples[r*cols+c]) / 256
		}
	}
	return out, nil
}

func floorInt(v float64) int64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

// writeCompressed encodes samples as raw big-endian bytes, then writes
// the zlib-compressed form instead whenever it comes out strictly
// smaller — the "compress iff smaller" policy from
// original_source/terrainlib/save.py.
func writeCompressed(path string, order binary.ByteOrder, samples any) error {
	var raw bytes.Buffer
	if err := binary.Write(&raw, order, samples); err != nil {
		return fmt.Errorf("rasterio: encoding %s: %w", path, err)
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("rasterio: compressing %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("rasterio: compressing %s: %w", path, err)
	}

	payload := raw.Bytes()
	if compressed.Len() < raw.Len() {
		payload = compressed.Bytes()
	}
	return os.WriteFile(path, payload, 0o644)
}

// readCompressed loads path into samples, detecting zlib framing by
// length alone: a file whose size equals the raw sample size is decoded
// directly, and anything else is decoded as a zlib stream. The two
// cannot be confused, because writeCompressed only writes the zlib form
// when it is strictly smaller than the raw payload.
func readCompressed(path string, order binary.ByteOrder, samples any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	wantLen := binary.Size(samples)
	if len(raw) == wantLen {
		return binary.Read(bytes.NewReader(raw), order, samples)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("rasterio: %s is neither raw-sized nor valid zlib: %w", path, err)
	}
	defer zr.Close()

	decoded, err := io.ReadAll(zr)
	if err != nil {
		return fmt.Errorf("rasterio: decompressing %s: %w", path, err)
	}
	if len(decoded) != wantLen {
		return ErrSizeMismatch
	}
	return binary.Read(bytes.NewReader(decoded), order, samples)
}
