package sinks

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/vnykmshr/taskreg/pkg/tasks/registry"
)

// NewConsole returns a sink that writes colorized, human-readable lines
// to w. Intended for interactive use; services should prefer NewSlog with
// their own handler.
func NewConsole(w io.Writer) registry.Sink {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})
	return NewSlog(slog.New(handler))
}
