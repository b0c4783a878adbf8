// Package obslog sets up structured logging for the CLI, the ambient
// concern spec.md's expansion brief asks for regardless of the spec's
// own scope.
//
// Grounded in
// leemwalker-thousand-worlds/tw-backend/internal/logging/logger.go's
// InitLogger, trimmed to what a single-process CLI tool needs (no
// request middleware, no context-scoped correlation IDs — those exist
// because that repo is an HTTP backend; this one runs once and exits).
package obslog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger with a human-readable
// console writer on stderr; verbose lowers the level to debug.
func Init(verbose bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// Stage logs the start of a named pipeline stage, mirroring
// generate.py's print(disp_niter) / print('Diffusion') progress
// messages but as structured fields instead of bare prints.
func Stage(name string, fields map[string]interface{}) {
	event := log.Info().Str("stage", name)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg("stage started")
}
