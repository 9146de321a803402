package sinks

import (
	"log/slog"

	"github.com/vnykmshr/taskreg/pkg/tasks/registry"
)

// NewSlog returns a sink that forwards registry events to logger.
//
// Info events map to slog.LevelInfo, Warning to slog.LevelWarn and Exception
// to slog.LevelError. The task name and error are attached as attributes
// when present; registry-level events carry a nil entry and produce no task
// attribute.
func NewSlog(logger *slog.Logger) registry.Sink {
	return func(e *registry.Entry, msg string, level registry.Level, err error) {
		args := make([]any, 0, 2)
		if e != nil {
			args = append(args, slog.String("task", e.Name()))
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
		}

		switch level {
		case registry.LevelWarning:
			logger.Warn(msg, args...)
		case registry.LevelException:
			logger.Error(msg, args...)
		default:
			logger.Info(msg, args...)
		}
	}
}
