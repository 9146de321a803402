package registry

import (
	"context"
	"time"
)

// Level classifies a log event emitted by the registry.
type Level int

const (
	// LevelInfo marks routine lifecycle events (register, resume, run start/complete).
	LevelInfo Level = iota
	// LevelWarning marks skipped or deferred cycles (paused task, overlapping run).
	LevelWarning
	// LevelException marks contained failures (action error or panic, verify hook failure).
	LevelException
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "Info"
	case LevelWarning:
		return "Warning"
	case LevelException:
		return "Exception"
	default:
		return "Unknown"
	}
}

// Sink receives every log event the registry emits. The entry is nil for
// registry-level events. Panics raised by a sink are swallowed by the
// fan-out, so a misbehaving sink never disturbs scheduling.
type Sink func(e *Entry, msg string, level Level, err error)

// Action is a unit of work executed by a task entry. The context is canceled
// when the entry is stopped or removed; long actions should observe it.
type Action interface {
	Run(ctx context.Context, e *Entry) error
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(ctx context.Context, e *Entry) error

// Run implements Action.
func (f ActionFunc) Run(ctx context.Context, e *Entry) error {
	return f(ctx, e)
}

// VerifyFunc is invoked immediately before each run. A positive return
// postpones the cycle by exactly that duration; the action is not executed
// and the hook is consulted again on the next tick. Zero or negative means
// run now.
type VerifyFunc func(e *Entry) time.Duration

// Clock abstracts time for schedule computation. Tests substitute a mock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Task describes a unit of work to register.
type Task struct {
	// Name uniquely identifies the entry. Required.
	Name string

	// Action is the work to execute. Required.
	Action Action

	// Interval runs the action on a fixed cadence. Takes precedence over
	// DailyTimes and Cron.
	Interval time.Duration

	// DailyTimes runs the action at the given times of day; only the clock
	// portion of each value is used (see DailyAt). When every configured
	// time has already passed for the current day the entry goes dormant
	// until triggered externally - daily times do not roll over to the
	// next day.
	DailyTimes []time.Time

	// Cron runs the action on a six-field cron expression (with seconds),
	// consulted only when neither Interval nor DailyTimes is set.
	Cron string

	// DeferFirstRun arms the first scheduled wait instead of executing
	// immediately at registration.
	DeferFirstRun bool

	// RunIsolated executes the action on a dedicated goroutine owned by the
	// entry, so the scheduling context returns immediately.
	RunIsolated bool

	// VerifyAtRuntime optionally postpones individual cycles.
	VerifyAtRuntime VerifyFunc
}

// TaskInfo is a point-in-time snapshot of an entry's state.
type TaskInfo struct {
	Name             string
	Enabled          bool
	Running          bool
	Dormant          bool
	Created          time.Time
	NextRun          time.Time
	LastAttemptedRun time.Time
	LastRunStarted   time.Time
	LastRunEnded     time.Time
	ErrorCount       int
}

// DailyAt builds a time-of-day value for Task.DailyTimes. The date part is
// a placeholder; the scheduler only reads the clock portion.
func DailyAt(hour, minute int) time.Time {
	return time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC)
}
