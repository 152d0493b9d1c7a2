package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configures the global zerolog logger for the player gateway and
// returns the root logger. Every component derives its own child logger
// from this one via With().Str("component", ...).
//   - level: trace, debug, info, warn, error, fatal, panic; unknown
//     values fall back to info
//   - format: "pretty" writes human-readable console output for local
//     development, anything else writes JSON lines for log shipping
func Setup(level, format string) zerolog.Logger {
	var writer io.Writer = os.Stdout
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Str("service", "player-backend").
		Logger()
}
