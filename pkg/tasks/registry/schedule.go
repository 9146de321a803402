package registry

import (
	"sort"
	"time"

	"github.com/robfig/cron/v3"
)

// nextWait computes the single wait duration for an entry's next cycle.
// Precedence: an explicit postponement is used verbatim, then the fixed
// interval, then the configured daily times, then the cron schedule.
// The second return is false when no wait is computable; the entry is
// then dormant until triggered externally.
func nextWait(now time.Time, postpone, interval time.Duration, daily []time.Time, cronSched cron.Schedule) (time.Duration, bool) {
	if postpone > 0 {
		return postpone, true
	}
	if interval > 0 {
		return interval, true
	}
	if len(daily) > 0 {
		instants := make([]time.Time, 0, len(daily))
		for _, tod := range daily {
			instants = append(instants, time.Date(
				now.Year(), now.Month(), now.Day(),
				tod.Hour(), tod.Minute(), tod.Second(), tod.Nanosecond(),
				now.Location()))
		}
		sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })
		for _, at := range instants {
			if at.After(now) {
				return at.Sub(now), true
			}
		}
		// Every configured time of day has already passed. Daily times do
		// not roll over past midnight; the entry goes dormant.
		return 0, false
	}
	if cronSched != nil {
		next := cronSched.Next(now)
		if next.IsZero() {
			return 0, false
		}
		return next.Sub(now), true
	}
	return 0, false
}

// scheduleNext recomputes the wait for the next cycle and re-arms the
// entry's timer. A zero postpone means normal computation. Removed and
// stopped entries are never re-armed.
func (e *Entry) scheduleNext(postpone time.Duration) {
	if e.removed.Load() || e.stopped.Load() {
		e.goDormant()
		return
	}

	now := e.reg.clock.Now().In(e.reg.loc)

	e.mu.Lock()
	d, ok := nextWait(now, postpone, e.interval, e.dailyTimes, e.cronSchedule)
	if !ok {
		e.setDormantLocked(true)
		e.nextRun = time.Time{}
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		e.mu.Unlock()
		return
	}
	e.setDormantLocked(false)
	e.nextRun = now.Add(d)
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(d, e.onTimer)
	e.mu.Unlock()
}

// goDormant cancels any armed wait and marks the entry dormant.
func (e *Entry) goDormant() {
	e.mu.Lock()
	e.setDormantLocked(true)
	e.nextRun = time.Time{}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
}

// onTimer is the armed wait expiring. Timers canceled by Stop or Remove can
// still fire due to races, so removal is re-checked before acting.
func (e *Entry) onTimer() {
	if e.removed.Load() {
		return
	}
	e.run()
}
