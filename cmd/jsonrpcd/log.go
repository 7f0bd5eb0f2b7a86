package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initLog configures the global logger. Unknown level names fall back to info.
func initLog(level string, debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	// Code that logs through zerolog.Ctx without a request logger uses the
	// global one.
	zerolog.DefaultContextLogger = &log.Logger

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Str("logging", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
