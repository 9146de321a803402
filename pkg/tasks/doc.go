/*
Package tasks provides in-process task registration and scheduling primitives.

This package groups the components for running named units of work on a
schedule:

  - registry: Named task entries with interval, time-of-day and cron
    scheduling, inline or isolated execution, and lifecycle control
  - sinks: Ready-made log-event sinks (slog bridge, tinted console, redis)

Registry:

The registry owns task entries and keeps them self-scheduling:

	reg := registry.New()
	defer reg.Close()

	reg.Register(registry.Task{
		Name:     "cleanup",
		Interval: time.Hour,
		Action: registry.ActionFunc(func(ctx context.Context, e *registry.Entry) error {
			return cleanup(ctx)
		}),
	})

	reg.Pause("cleanup")
	reg.Resume("cleanup")
	reg.Run("cleanup") // manual trigger

Sinks:

Sinks receive every lifecycle event a registry emits:

	reg.AddSink(sinks.NewSlog(slog.Default()))

All components are safe for concurrent use.
*/
package tasks
