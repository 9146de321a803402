/*
Package taskreg provides an in-process registry of named, self-scheduling
tasks for Go services.

Task Registry (pkg/tasks/registry):
  - interval, daily-times and cron schedule sources
  - inline or isolated execution with overlap protection
  - pause, resume, stop, remove and manual-run control
  - verify hooks that can postpone individual cycles
  - contained failures: errors and panics never halt scheduling

Sinks (pkg/tasks/sinks):
  - slog: bridge registry events to any slog handler
  - console: colorized human-readable output
  - redis: JSON events published to a pub/sub channel

Example usage:

	import (
		"github.com/vnykmshr/taskreg/pkg/tasks/registry"
		"github.com/vnykmshr/taskreg/pkg/tasks/sinks"
	)

	reg := registry.New()
	defer reg.Close()

	reg.AddSink(sinks.NewSlog(slog.Default()))

	reg.Register(registry.Task{
		Name:     "cleanup",
		Interval: 10 * time.Minute,
		Action: registry.ActionFunc(func(ctx context.Context, e *registry.Entry) error {
			return cleanup(ctx)
		}),
	})
*/
package taskreg
