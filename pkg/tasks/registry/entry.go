package registry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Entry is the in-memory record of one registered task: its configuration,
// timing state and run state. Entries are created by Register and destroyed
// by Remove; each one drives its own schedule by re-arming a cancellable
// timer at the end of every cycle.
type Entry struct {
	reg *Registry

	name        string
	action      Action
	verify      VerifyFunc
	runIsolated bool

	enabled atomic.Bool
	removed atomic.Bool
	stopped atomic.Bool
	running atomic.Bool

	// runMu serializes executions of this entry across both modes; a held
	// lock means the previous run is still live.
	runMu sync.Mutex

	mu           sync.Mutex
	interval     time.Duration
	dailyTimes   []time.Time
	cronSchedule cron.Schedule
	timer        *time.Timer
	nextRun      time.Time
	dormant      bool
	created      time.Time
	lastAttempt  time.Time
	lastStarted  time.Time
	lastEnded    time.Time
	errs         []error
	runCancel    context.CancelFunc
}

// Name returns the entry's immutable identity key.
func (e *Entry) Name() string { return e.name }

// Enabled reports whether scheduled cycles execute the action. Disabled
// entries keep ticking but skip execution.
func (e *Entry) Enabled() bool { return e.enabled.Load() }

// Removed reports whether the entry has been removed from its registry.
func (e *Entry) Removed() bool { return e.removed.Load() }

// Running reports whether the action body is executing right now.
func (e *Entry) Running() bool { return e.running.Load() }

// Dormant reports whether the entry has no armed next run. A dormant entry
// stays registered but is inert until triggered externally.
func (e *Entry) Dormant() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dormant
}

// Created returns the registration time.
func (e *Entry) Created() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created
}

// NextRun returns the instant of the armed next run, or the zero time when
// the entry is dormant.
func (e *Entry) NextRun() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextRun
}

// LastAttemptedRun returns when the run procedure last reached an enabled
// entry, whether or not the action ultimately executed.
func (e *Entry) LastAttemptedRun() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastAttempt
}

// LastRunStarted returns when the action body last began executing.
func (e *Entry) LastRunStarted() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastStarted
}

// LastRunEnded returns when the action body last finished executing.
func (e *Entry) LastRunEnded() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastEnded
}

// Errors returns a copy of the errors captured during past runs, oldest
// first.
func (e *Entry) Errors() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]error, len(e.errs))
	copy(out, e.errs)
	return out
}

// Info returns a point-in-time snapshot of the entry's state.
func (e *Entry) Info() TaskInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return TaskInfo{
		Name:             e.name,
		Enabled:          e.enabled.Load(),
		Running:          e.running.Load(),
		Dormant:          e.dormant,
		Created:          e.created,
		NextRun:          e.nextRun,
		LastAttemptedRun: e.lastAttempt,
		LastRunStarted:   e.lastStarted,
		LastRunEnded:     e.lastEnded,
		ErrorCount:       len(e.errs),
	}
}

// setDormantLocked updates the dormant flag and keeps the gauge in step.
// Callers hold e.mu.
func (e *Entry) setDormantLocked(dormant bool) {
	if e.dormant == dormant {
		return
	}
	e.dormant = dormant
	e.reg.gaugeDormant(dormant)
}

func (e *Entry) recordError(err error) {
	e.mu.Lock()
	e.errs = append(e.errs, err)
	e.mu.Unlock()
}

// halt cancels the armed wait and the in-flight run's context. It never
// terminates a live goroutine; an already-started action finishes its
// current work and honors cancellation cooperatively.
func (e *Entry) halt() {
	e.stopped.Store(true)
	e.enabled.Store(false)

	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	cancel := e.runCancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.goDormant()
}

// clearSchedule drops every schedule source so a removed entry can never
// compute another wait.
func (e *Entry) clearSchedule() {
	e.mu.Lock()
	e.interval = 0
	e.dailyTimes = nil
	e.cronSchedule = nil
	e.nextRun = time.Time{}
	e.mu.Unlock()
}
