package cli

import (
	"io"
	"log/slog"
)

// NewLogger returns the diagnostic logger of the tools: a
// text handler on w whose level follows level. It starts at
// warn; --debug lowers it.
func NewLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	level.Set(slog.LevelWarn)

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
