package registry

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// run is one invocation attempt of the entry's cycle:
// Idle -> Verifying -> (Postponed | Running) -> Completed/Failed -> Rescheduled.
// It is invoked by timer expiry, by registration (immediate first run) and
// by a manual trigger. Failures are contained here; they never halt future
// scheduling.
func (e *Entry) run() {
	if e.removed.Load() {
		return
	}

	if !e.enabled.Load() {
		// Paused entries keep ticking on schedule but never invoke the action.
		e.reg.Log(e, "run skipped: task is paused", LevelWarning, nil)
		e.reg.countSkip(e)
		e.scheduleNext(0)
		return
	}

	e.mu.Lock()
	e.lastAttempt = e.reg.clock.Now()
	e.mu.Unlock()

	if e.verify != nil {
		delay, err := e.runVerify()
		if err != nil {
			// A failing verify hook is fatal to this cycle only.
			e.recordError(err)
			e.reg.Log(e, "verify hook failed", LevelException, err)
			e.scheduleNext(0)
			return
		}
		if delay > 0 {
			e.reg.Log(e, fmt.Sprintf("run postponed for %s", delay), LevelInfo, nil)
			e.reg.countPostpone(e)
			e.scheduleNext(delay)
			return
		}
	}

	if !e.runMu.TryLock() {
		// The previous run is still live. Re-arm a short retry wait instead
		// of going dormant so the schedule survives a slow action.
		e.reg.Log(e, "previous run still in progress, retrying shortly", LevelWarning, nil)
		e.reg.countOverlap(e)
		e.scheduleNext(e.reg.overlapRetry)
		return
	}

	if e.runIsolated {
		// Detached execution: the next wait is armed at spawn, so the
		// schedule ticks at a fixed rate regardless of action duration.
		go e.execute()
		e.scheduleNext(0)
		return
	}

	// Inline execution blocks this goroutine; the next wait is armed only
	// after the action finishes.
	e.execute()
	e.scheduleNext(0)
}

// execute runs the action body exactly once and records timing and errors.
// The caller holds e.runMu and owns rescheduling.
func (e *Entry) execute() {
	defer e.runMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e.mu.Lock()
	e.runCancel = cancel
	e.lastStarted = e.reg.clock.Now()
	e.mu.Unlock()

	e.running.Store(true)
	e.reg.Log(e, "run started", LevelInfo, nil)
	e.reg.countStart(e)

	start := time.Now()
	err := e.invoke(ctx)
	duration := time.Since(start)

	e.running.Store(false)
	e.mu.Lock()
	e.lastEnded = e.reg.clock.Now()
	e.runCancel = nil
	e.mu.Unlock()

	if err != nil {
		e.recordError(err)
		e.reg.Log(e, "run failed", LevelException, err)
		e.reg.countFail(e, duration)
	} else {
		e.reg.Log(e, "run completed", LevelInfo, nil)
		e.reg.countComplete(e, duration)
	}
}

// invoke executes the action with panic containment.
func (e *Entry) invoke(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v\nStack trace:\n%s", r, debug.Stack())
		}
	}()
	return e.action.Run(ctx, e)
}

// runVerify consults the verify hook with panic containment.
func (e *Entry) runVerify() (d time.Duration, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = 0
			err = fmt.Errorf("verify hook panicked: %v", r)
		}
	}()
	return e.verify(e), nil
}
