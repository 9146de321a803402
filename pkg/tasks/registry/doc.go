/*
Package registry provides an in-process registry of named, self-scheduling
tasks.

Callers register units of work that execute on a fixed interval, at
configured times of day, on a cron expression, or immediately. Each entry
owns its own scheduling state: a completed (or skipped) cycle computes the
next wait and re-arms a cancellable timer, so once registered an entry drives
itself with no external ticker.

Basic usage:

	reg := registry.New()
	defer reg.Close()

	_, err := reg.Register(registry.Task{
		Name:     "report",
		Interval: 10 * time.Minute,
		Action: registry.ActionFunc(func(ctx context.Context, e *registry.Entry) error {
			return buildReport(ctx)
		}),
	})
	if err != nil {
		log.Fatal(err)
	}

Schedule sources:

One wait is computed per cycle, in precedence order:

  - a postponement returned by the verify hook (used verbatim)
  - Interval: a fixed cadence
  - DailyTimes: the next configured time of day strictly after now. When
    every configured time has already passed for the day the entry goes
    dormant until triggered externally; daily times deliberately do not
    roll over past midnight.
  - Cron: a six-field cron expression (with seconds)

An entry with no computable wait is dormant: still registered, inert until a
manual Run reactivates it.

Execution modes:

Inline actions run on the timer's goroutine and block it for the action's
duration; the next wait is armed after the action finishes. Isolated actions
(Task.RunIsolated) run on a dedicated goroutine owned by the entry, and the
next wait is armed at spawn, so the schedule ticks at a fixed rate regardless
of how long the action takes. In both modes runs of a single entry never
overlap: a cycle that finds the previous run still live logs a warning and
re-arms a short retry wait.

Control surface:

	reg.Pause("report")  // keep ticking, skip the action
	reg.Resume("report") // next tick executes again
	reg.Stop("report")   // cancel armed wait, signal in-flight run's context
	reg.Run("report")    // manual trigger, also revives a dormant entry
	reg.Remove("report") // stop, clear schedule, delete

All five are silent no-ops for unknown names. Stop is cooperative: it cancels
the context passed to the action and never terminates a goroutine, so a
started action finishes its current work.

Failure containment:

Errors and panics from the action body are captured into the entry's error
list, logged at Exception severity and never propagated; the entry is
rescheduled exactly as if the run had succeeded. A failing verify hook is
fatal to that cycle only.

Observability:

Every lifecycle event (register, pause, resume, stop, remove, run
start/skip/postpone/complete/fail) is fanned out to the registered sinks;
sink panics are swallowed. See the sinks package for ready-made sinks and
NewWithMetrics for Prometheus instrumentation.
*/
package registry
