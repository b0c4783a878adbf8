// Package config implements spec.md §9's configuration layer: a
// trivial `key = value` text file plus command-line overrides, kept
// deliberately on the standard library per DESIGN.md — the format is
// a handful of lines of string splitting, and none of the retrieval
// pack's example repos pull in a flag/config library for anything this
// small.
//
// Grounded in original_source/terrainlib/settings.py
// (read_config_file) and generate.py's hand-rolled argv scanner.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Settings is a flat string-keyed parameter bag; CLI overrides and
// config-file entries both land in the same map, with CLI winning.
type Settings map[string]string

// ReadFile parses a `key = value` config file. A missing file is not
// an error — it returns an empty Settings, mirroring
// read_config_file's "return {} if the file doesn't exist" behavior,
// since every key has a sensible default downstream.
func ReadFile(path string) (Settings, error) {
	settings := Settings{}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, "=", 2)
		if len(parts) < 2 {
			continue
		}
		settings[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return settings, nil
}

// ParseArgs scans args (normally os.Args[1:]) for `--key value` and
// `--key=value` overrides plus up to two positional arguments (config
// path, output directory). Unknown --keys flow through into overrides
// rather than erroring, so new evolution-model parameters never need a
// matching CLI flag declaration.
func ParseArgs(args []string, defaultConfigFile, defaultOutputDir string) (configFile, outputDir string, overrides Settings) {
	configFile = defaultConfigFile
	outputDir = defaultOutputDir
	overrides = Settings{}

	positional := 0
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			positional++
			switch positional {
			case 1:
				configFile = arg
			case 2:
				outputDir = arg
			}
			continue
		}

		name := arg[2:]
		var value string
		if split := strings.SplitN(name, "=", 2); len(split) == 2 {
			name, value = split[0], split[1]
		} else if i+1 < len(args) {
			value = args[i+1]
			i++
		} else {
			continue
		}

		switch name {
		case "config":
			configFile = value
		case "output":
			outputDir = value
		default:
			overrides[name] = value
		}
	}
	return configFile, outputDir, overrides
}

// Merge layers override on top of base, returning a new Settings with
// override's entries taking precedence — the config-file-then-CLI
// precedence generate.py applies via params.update(params_from_args).
func Merge(base, override Settings) Settings {
	out := make(Settings, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// String returns the value for name, or def if absent.
func (s Settings) String(name, def string) string {
	if v, ok := s[name]; ok {
		return v
	}
	return def
}

// Float returns the value for name parsed as a float64, or def if
// absent or unparseable.
func (s Settings) Float(name string, def float64) float64 {
	v, ok := s[name]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Int returns the value for name parsed as an int, or def if absent
// or unparseable.
func (s Settings) Int(name string, def int) int {
	v, ok := s[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
