package core

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger for dev and a JSON logger otherwise.
// An unknown level falls back to info.
func NewLogger(w io.Writer, env, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if env == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("env", env).Logger()
}
