// Package metrics provides Prometheus instrumentation for taskreg components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for taskreg components.
type Registry struct {
	// Task lifecycle metrics
	TasksRegistered *prometheus.CounterVec
	TasksRemoved    *prometheus.CounterVec
	TasksLive       *prometheus.GaugeVec
	TasksDormant    *prometheus.GaugeVec
	TasksRunning    *prometheus.GaugeVec

	// Run cycle metrics
	RunsStarted    *prometheus.CounterVec
	RunsCompleted  *prometheus.CounterVec
	RunsFailed     *prometheus.CounterVec
	RunsSkipped    *prometheus.CounterVec
	RunsPostponed  *prometheus.CounterVec
	RunsOverlapped *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
}

// DefaultRegistry is the default metrics registry used by taskreg components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		TasksRegistered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskreg",
				Subsystem: "registry",
				Name:      "tasks_registered_total",
				Help:      "Total number of tasks registered",
			},
			[]string{"registry_name"},
		),

		TasksRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskreg",
				Subsystem: "registry",
				Name:      "tasks_removed_total",
				Help:      "Total number of tasks removed",
			},
			[]string{"registry_name"},
		),

		TasksLive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskreg",
				Subsystem: "registry",
				Name:      "tasks_live",
				Help:      "Number of tasks currently registered",
			},
			[]string{"registry_name"},
		),

		TasksDormant: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskreg",
				Subsystem: "registry",
				Name:      "tasks_dormant",
				Help:      "Number of tasks with no computable next run",
			},
			[]string{"registry_name"},
		),

		TasksRunning: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskreg",
				Subsystem: "registry",
				Name:      "tasks_running",
				Help:      "Number of task actions currently executing",
			},
			[]string{"registry_name"},
		),

		RunsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskreg",
				Subsystem: "runs",
				Name:      "started_total",
				Help:      "Total number of action executions started",
			},
			[]string{"registry_name", "task_name"},
		),

		RunsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskreg",
				Subsystem: "runs",
				Name:      "completed_total",
				Help:      "Total number of action executions completed successfully",
			},
			[]string{"registry_name", "task_name"},
		),

		RunsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskreg",
				Subsystem: "runs",
				Name:      "failed_total",
				Help:      "Total number of action executions that returned an error or panicked",
			},
			[]string{"registry_name", "task_name"},
		),

		RunsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskreg",
				Subsystem: "runs",
				Name:      "skipped_total",
				Help:      "Total number of cycles skipped because the task was paused",
			},
			[]string{"registry_name", "task_name"},
		),

		RunsPostponed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskreg",
				Subsystem: "runs",
				Name:      "postponed_total",
				Help:      "Total number of cycles postponed by the verify hook",
			},
			[]string{"registry_name", "task_name"},
		),

		RunsOverlapped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskreg",
				Subsystem: "runs",
				Name:      "overlapped_total",
				Help:      "Total number of cycles deferred because the previous run was still live",
			},
			[]string{"registry_name", "task_name"},
		),

		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "taskreg",
				Subsystem: "runs",
				Name:      "duration_seconds",
				Help:      "Time spent executing task actions",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"registry_name", "task_name"},
		),
	}
}
