package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Log is the application logger. It starts as slog.Default so packages can log
// before Init runs (tests, tools).
var Log = slog.Default()

// Init installs the JSON handler on stdout. Production environments log from
// Info up, everything else from Debug.
func Init(env string) {
	level := slog.LevelDebug
	if strings.EqualFold(env, "production") {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler).With("service", "skillijob-api")
	slog.SetDefault(Log)
}
