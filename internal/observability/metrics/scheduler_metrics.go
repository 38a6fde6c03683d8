package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	SchedulerJobReasonDeadlineExceeded = "deadline_exceeded"
	SchedulerJobReasonCanceled         = "canceled"
	SchedulerJobReasonError            = "error"
)

// SchedulerMetrics exposes job-level instruments for the background scheduler.
type SchedulerMetrics struct {
	jobRuns     *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	jobTimeouts *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	runLoopLag  prometheus.Histogram
}

var (
	schedulerMu       sync.Mutex
	schedulerInstance *SchedulerMetrics
)

// SchedulerWithConfig initializes the singleton scheduler metrics.
func SchedulerWithConfig(cfg Config) *SchedulerMetrics {
	schedulerMu.Lock()
	defer schedulerMu.Unlock()

	if schedulerInstance != nil {
		return schedulerInstance
	}

	constLabels := prometheus.Labels{
		"service": cfg.serviceName(),
		"env":     strings.TrimSpace(cfg.Environment),
	}

	m := &SchedulerMetrics{
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "safeguard_scheduler_job_runs_total",
			Help:        "Count of scheduler job executions.",
			ConstLabels: constLabels,
		}, []string{"job"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "safeguard_scheduler_job_errors_total",
			Help:        "Count of scheduler job failures by reason.",
			ConstLabels: constLabels,
		}, []string{"job", "reason"}),
		jobTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "safeguard_scheduler_job_timeouts_total",
			Help:        "Count of scheduler jobs that hit their deadline.",
			ConstLabels: constLabels,
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "safeguard_scheduler_job_duration_seconds",
			Help:        "Scheduler job wall time.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"job"}),
		runLoopLag: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "safeguard_scheduler_run_loop_lag_seconds",
			Help:        "How far behind schedule each scheduler tick started.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}),
	}

	prometheus.DefaultRegisterer.MustRegister(
		m.jobRuns, m.jobErrors, m.jobTimeouts, m.jobDuration, m.runLoopLag,
	)

	schedulerInstance = m
	return m
}

// Scheduler returns the singleton, initializing it with defaults when needed.
func Scheduler() *SchedulerMetrics {
	schedulerMu.Lock()
	instance := schedulerInstance
	schedulerMu.Unlock()
	if instance != nil {
		return instance
	}
	return SchedulerWithConfig(Config{})
}

// ResetSchedulerMetricsForTest clears the singleton so tests can swap registries.
func ResetSchedulerMetricsForTest() {
	schedulerMu.Lock()
	defer schedulerMu.Unlock()
	schedulerInstance = nil
}

func (m *SchedulerMetrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) IncJobError(job string, err error) {
	if m == nil || err == nil {
		return
	}
	m.jobErrors.WithLabelValues(job, classifyJobError(err)).Inc()
}

func (m *SchedulerMetrics) IncJobTimeout(job string) {
	if m == nil {
		return
	}
	m.jobTimeouts.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) ObserveJobDuration(job string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *SchedulerMetrics) ObserveRunLoopLag(d time.Duration) {
	if m == nil {
		return
	}
	m.runLoopLag.Observe(d.Seconds())
}

func classifyJobError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return SchedulerJobReasonDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return SchedulerJobReasonCanceled
	default:
		return SchedulerJobReasonError
	}
}
