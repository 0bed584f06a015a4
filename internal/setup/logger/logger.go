package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process console logger. The level comes from the
// LOG_LEVEL environment variable, defaulting to info.
func New() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
