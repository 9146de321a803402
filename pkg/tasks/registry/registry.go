package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	gferrors "github.com/vnykmshr/taskreg/pkg/common/errors"
	"github.com/vnykmshr/taskreg/pkg/metrics"
)

// DefaultOverlapRetryDelay is the wait re-armed when a cycle finds the
// previous run still live.
const DefaultOverlapRetryDelay = time.Second

// Config holds registry configuration. The zero value is usable.
type Config struct {
	// Name labels this registry in metrics. Defaults to "default".
	Name string

	// Clock supplies the current time for schedule computation. Defaults to
	// the system clock.
	Clock Clock

	// Location is the time zone for daily-time and cron computation.
	// Defaults to time.Local.
	Location *time.Location

	// OverlapRetryDelay is the wait re-armed when a cycle finds the previous
	// run still live. Defaults to DefaultOverlapRetryDelay.
	OverlapRetryDelay time.Duration

	// Metrics configures Prometheus instrumentation.
	Metrics metrics.Config
}

// Registry is a process-local collection of task entries keyed by unique
// name. Entries are self-scheduling once registered; the registry is the
// control surface (pause, resume, stop, remove, manual run) and the log
// fan-out point.
type Registry struct {
	name         string
	clock        Clock
	loc          *time.Location
	overlapRetry time.Duration
	parser       cron.Parser

	mu      sync.Mutex
	entries map[string]*Entry
	sinks   []Sink
	closed  bool

	metrics *metrics.Registry
}

// New creates a registry with default configuration.
func New() *Registry {
	return NewWithConfig(Config{})
}

// NewWithMetrics creates a registry with Prometheus metrics enabled under
// the given name, registered with the default registerer.
func NewWithMetrics(name string) *Registry {
	return NewWithConfig(Config{
		Name:    name,
		Metrics: metrics.Config{Enabled: true},
	})
}

// NewWithConfig creates a registry with custom configuration.
func NewWithConfig(cfg Config) *Registry {
	name := cfg.Name
	if name == "" {
		name = "default"
	}

	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	overlapRetry := cfg.OverlapRetryDelay
	if overlapRetry <= 0 {
		overlapRetry = DefaultOverlapRetryDelay
	}

	var m *metrics.Registry
	if cfg.Metrics.Enabled {
		if cfg.Metrics.Registry != nil {
			m = metrics.NewRegistry(cfg.Metrics.Registry)
		} else {
			m = metrics.DefaultRegistry
		}
	}

	return &Registry{
		name:         name,
		clock:        clock,
		loc:          loc,
		overlapRetry: overlapRetry,
		parser:       cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		entries:      make(map[string]*Entry),
		metrics:      m,
	}
}

// AddSink registers a log sink. Every lifecycle event is fanned out to all
// sinks in registration order.
func (r *Registry) AddSink(s Sink) {
	if s == nil {
		return
	}
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

// Register validates the task, stores a new entry under its name and makes
// it live: the first run happens immediately unless DeferFirstRun is set,
// in which case the first wait is armed instead. Registration failures are
// *gferrors.ValidationError values.
func (r *Registry) Register(t Task) (*Entry, error) {
	if t.Name == "" {
		return nil, gferrors.NewValidationError("registry", "name", t.Name, "cannot be empty").
			WithHint("task names identify entries")
	}
	if t.Action == nil {
		return nil, gferrors.NewValidationError("registry", "action", nil, "cannot be nil").
			WithHint("provide the unit of work to execute")
	}
	if t.Interval < 0 {
		return nil, gferrors.NewValidationError("registry", "interval", t.Interval, "cannot be negative")
	}

	var cronSched cron.Schedule
	if t.Cron != "" {
		sched, err := r.parser.Parse(t.Cron)
		if err != nil {
			return nil, gferrors.NewValidationError("registry", "cron", t.Cron, "unparsable expression").
				WithHint(err.Error())
		}
		cronSched = sched
	}

	e := &Entry{
		reg:          r,
		name:         t.Name,
		action:       t.Action,
		verify:       t.VerifyAtRuntime,
		runIsolated:  t.RunIsolated,
		interval:     t.Interval,
		dailyTimes:   append([]time.Time(nil), t.DailyTimes...),
		cronSchedule: cronSched,
		created:      r.clock.Now(),
	}
	e.enabled.Store(true)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, gferrors.ErrClosed
	}
	if _, exists := r.entries[t.Name]; exists {
		r.mu.Unlock()
		return nil, gferrors.NewValidationError("registry", "name", t.Name, "already registered").
			WithHint("remove the existing task first or use a different name")
	}
	r.entries[t.Name] = e
	r.mu.Unlock()

	r.countRegistered()
	r.Log(e, "task registered", LevelInfo, nil)

	if t.DeferFirstRun {
		e.scheduleNext(0)
	} else {
		go e.run()
	}
	return e, nil
}

// Pause disables the entry: scheduled cycles keep ticking but skip the
// action. Unknown names are silent no-ops.
func (r *Registry) Pause(name string) {
	e, ok := r.Get(name)
	if !ok {
		return
	}
	e.enabled.Store(false)
	r.Log(e, "task paused", LevelInfo, nil)
}

// Resume re-enables the entry without altering the armed schedule; the very
// next tick executes the action. It also lifts a prior Stop so a manual Run
// can re-arm the schedule. Unknown names are silent no-ops.
func (r *Registry) Resume(name string) {
	e, ok := r.Get(name)
	if !ok {
		return
	}
	e.stopped.Store(false)
	e.enabled.Store(true)
	r.Log(e, "task resumed", LevelInfo, nil)
}

// Stop disables the entry, cancels its armed wait and signals the in-flight
// run's context. The entry stays registered; revive it with Resume followed
// by Run. Unknown names are silent no-ops.
func (r *Registry) Stop(name string) {
	e, ok := r.Get(name)
	if !ok {
		return
	}
	e.halt()
	r.Log(e, "task stopped", LevelInfo, nil)
}

// Remove stops the entry, clears its schedule, marks it removed and deletes
// it from the registry. A timer that already fired finds the removed flag
// and aborts. Unknown names are silent no-ops.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	e, ok := r.entries[name]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.entries, name)
	r.mu.Unlock()

	e.removed.Store(true)
	e.halt()
	e.clearSchedule()

	e.mu.Lock()
	e.setDormantLocked(false)
	e.mu.Unlock()

	r.countRemoved()
	r.Log(e, "task removed", LevelInfo, nil)
}

// Run triggers the entry's run procedure immediately, off the caller's
// goroutine. It also lifts a prior Stop, so completing the run re-arms the
// schedule and reactivates a dormant entry. Unknown names are silent no-ops.
func (r *Registry) Run(name string) {
	e, ok := r.Get(name)
	if !ok {
		return
	}
	e.stopped.Store(false)
	go e.run()
}

// Get returns the live entry with the given name.
func (r *Registry) Get(name string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	return e, ok
}

// List returns a snapshot of every registered entry, sorted by name.
func (r *Registry) List() []TaskInfo {
	r.mu.Lock()
	infos := make([]TaskInfo, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, e.Info())
	}
	r.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Log fans an event out to every registered sink. Sink panics are swallowed;
// Log never fails.
func (r *Registry) Log(e *Entry, msg string, level Level, err error) {
	r.mu.Lock()
	sinks := make([]Sink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.Unlock()

	for _, s := range sinks {
		emit(s, e, msg, level, err)
	}
}

func emit(s Sink, e *Entry, msg string, level Level, err error) {
	defer func() {
		_ = recover()
	}()
	s(e, msg, level, err)
}

// Close stops every entry and rejects further registrations with ErrClosed.
// Entries in flight finish their current run; nothing is re-armed afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	entries := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.halt()
	}
	r.Log(nil, "registry closed", LevelInfo, nil)
}
