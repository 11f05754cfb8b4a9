package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the service logger. Production environments get JSON
// output for the log pipeline; development gets human-readable text.
func NewLogger(environment string) *slog.Logger {
	var handler slog.Handler
	if environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}

// NoOpLogger discards everything. For tests.
var NoOpLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
