package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the service logger. Development and cli environments get
// a console writer; the cli variant writes to stderr so stdout stays free
// for command output.
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	var out io.Writer = os.Stdout
	switch appEnv {
	case "development":
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	case "cli":
		level = zerolog.WarnLevel
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	case "test":
		level = zerolog.Disabled
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "styleme").
		Logger()
}

// Logger aliases zerolog.Logger so callers can depend on the logging
// contract without importing the module directly.
type Logger = zerolog.Logger
