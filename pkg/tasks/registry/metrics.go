package registry

import "time"

// Metrics hooks. Every helper is a no-op when instrumentation is disabled,
// so the hot path pays a single nil check.

func (r *Registry) countRegistered() {
	if r.metrics == nil {
		return
	}
	r.metrics.TasksRegistered.WithLabelValues(r.name).Inc()
	r.metrics.TasksLive.WithLabelValues(r.name).Inc()
}

func (r *Registry) countRemoved() {
	if r.metrics == nil {
		return
	}
	r.metrics.TasksRemoved.WithLabelValues(r.name).Inc()
	r.metrics.TasksLive.WithLabelValues(r.name).Dec()
}

func (r *Registry) gaugeDormant(dormant bool) {
	if r.metrics == nil {
		return
	}
	if dormant {
		r.metrics.TasksDormant.WithLabelValues(r.name).Inc()
	} else {
		r.metrics.TasksDormant.WithLabelValues(r.name).Dec()
	}
}

func (r *Registry) countStart(e *Entry) {
	if r.metrics == nil {
		return
	}
	r.metrics.RunsStarted.WithLabelValues(r.name, e.name).Inc()
	r.metrics.TasksRunning.WithLabelValues(r.name).Inc()
}

func (r *Registry) countComplete(e *Entry, d time.Duration) {
	if r.metrics == nil {
		return
	}
	r.metrics.RunsCompleted.WithLabelValues(r.name, e.name).Inc()
	r.metrics.RunDuration.WithLabelValues(r.name, e.name).Observe(d.Seconds())
	r.metrics.TasksRunning.WithLabelValues(r.name).Dec()
}

func (r *Registry) countFail(e *Entry, d time.Duration) {
	if r.metrics == nil {
		return
	}
	r.metrics.RunsFailed.WithLabelValues(r.name, e.name).Inc()
	r.metrics.RunDuration.WithLabelValues(r.name, e.name).Observe(d.Seconds())
	r.metrics.TasksRunning.WithLabelValues(r.name).Dec()
}

func (r *Registry) countSkip(e *Entry) {
	if r.metrics == nil {
		return
	}
	r.metrics.RunsSkipped.WithLabelValues(r.name, e.name).Inc()
}

func (r *Registry) countPostpone(e *Entry) {
	if r.metrics == nil {
		return
	}
	r.metrics.RunsPostponed.WithLabelValues(r.name, e.name).Inc()
}

func (r *Registry) countOverlap(e *Entry) {
	if r.metrics == nil {
		return
	}
	r.metrics.RunsOverlapped.WithLabelValues(r.name, e.name).Inc()
}
