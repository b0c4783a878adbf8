package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gaelysam/mapgen-rivers/internal/config"
	"github.com/gaelysam/mapgen-rivers/internal/evolution"
	"github.com/gaelysam/mapgen-rivers/internal/flow"
	"github.com/gaelysam/mapgen-rivers/internal/grid"
	"github.com/gaelysam/mapgen-rivers/internal/noise"
	"github.com/gaelysam/mapgen-rivers/internal/obslog"
	"github.com/gaelysam/mapgen-rivers/internal/params"
	"github.com/gaelysam/mapgen-rivers/internal/rasterio"
	"github.com/gaelysam/mapgen-rivers/internal/twist"
)

var printerr = func(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
}

func main() {
	obslog.Init(false)

	configFile, outputDir, cliOverrides := config.ParseArgs(os.Args[1:], "terrain.conf", "river_data")

	fileSettings, err := config.ReadFile(configFile)
	if err != nil {
		printerr(err)
		os.Exit(1)
	}
	settings := config.Merge(fileSettings, cliOverrides)

	if err := run(settings, outputDir); err != nil {
		printerr(err)
		os.Exit(1)
	}
}

func run(s config.Settings, outputDir string) error {
	mapsize := s.Int("mapsize", 1000)
	rows, cols := mapsize+1, mapsize+1

	scale := s.Float("scale", 400.0)
	vscale := s.Float("vscale", 300.0)
	offset := s.Float("offset", 0.0)
	persistence := s.Float("persistence", 0.6)
	lacunarity := s.Float("lacunarity", 2.0)
	octaves := int(math.Ceil(math.Log2(float64(mapsize)))) + 1
	seed := int64(s.Int("seed", 1))

	k := params.Scalar(s.Float("K", 1.0))
	m := params.Scalar(s.Float("m", 0.35))
	d := params.Scalar(s.Float("d", 0.2))
	seaLevel := s.Float("sea_level", 0.0)
	seaLevelVariations := s.Float("sea_level_variations", 0.0)
	seaLevelVariationsTime := s.Float("sea_level_variations_time", 1.0)
	flexRadius := s.Float("flex_radius", 20.0)
	flowMethod := flow.Method(s.String("flow_method", string(flow.MethodSemirandom)))

	modelTime := s.Float("time", 10.0)
	niter := s.Int("niter", 10)
	isostasyRate := s.Float("isostasy_rate", 1.0)

	log.Info().Int("rows", rows).Int("cols", cols).Msg("generating initial terrain")
	gen := noise.NewFractal(seed, octaves, persistence, lacunarity)
	dem := grid.NewElevationFrom(rows, cols, gen.Grid(rows, cols, scale, vscale, offset))

	model := evolution.New(dem, evolution.Params{
		K: k, M: m, D: d,
		SeaLevel:               seaLevel,
		SeaLevelVariations:     seaLevelVariations,
		SeaLevelVariationsTime: seaLevelVariationsTime,
		FlexRadius:             flexRadius,
		FlowMethod:             flowMethod,
		FlowSeed:               uint64(seed),
	})

	log.Info().Float64("time", modelTime).Int("niter", niter).Msg("running landscape evolution")
	start := time.Now()
	model.Run(modelTime, niter, isostasyRate)
	log.Info().Dur("elapsed", time.Since(start)).Msg("evolution complete")

	boundsH, boundsV := twist.Bounds(model.Dirs, model.Rivers)
	fixed := twist.Fixed(model.Dirs)
	twisted := twist.Solve(boundsH, boundsV, fixed, twist.DefaultStep, twist.DefaultIterations)

	stats := evolution.ComputeStats(model.Dem, model.Lakes, seaLevel)
	log.Info().
		Float64("continent_fraction", stats.ContinentFraction).
		Float64("lake_fraction", stats.LakeFraction).
		Float64("mean_elevation", stats.MeanElevation).
		Msg("final statistics")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return save(outputDir, model, twisted, rows, cols)
}

func save(outputDir string, model *evolution.Model, twisted twist.Result, rows, cols int) error {
	if err := rasterio.WriteSize(outputDir, rows, cols); err != nil {
		return err
	}
	if err := rasterio.WriteDEM(filepath.Join(outputDir, "dem"), model.Dem); err != nil {
		return err
	}
	if err := rasterio.WriteDEM(filepath.Join(outputDir, "lakes"), model.Lakes); err != nil {
		return err
	}
	if err := rasterio.WriteDirs(filepath.Join(outputDir, "dirs"), model.Dirs); err != nil {
		return err
	}
	if err := rasterio.WriteRivers(filepath.Join(outputDir, "rivers"), model.Rivers); err != nil {
		return err
	}
	if err := rasterio.WriteOffset(filepath.Join(outputDir, "offset_x"), twisted.OffsetX); err != nil {
		return err
	}
	if err := rasterio.WriteOffset(filepath.Join(outputDir, "offset_y"), twisted.OffsetY); err != nil {
		return err
	}
	log.Info().Str("dir", outputDir).Msg("grid written")
	return nil
}
