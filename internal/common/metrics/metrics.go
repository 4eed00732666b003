// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_jobs_completed_total",
			Help: "Total number of jobs completed, by job type",
		},
		[]string{"job_type"},
	)

	PipelineJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_jobs_failed_total",
			Help: "Total number of jobs failed, by job type and error code",
		},
		[]string{"job_type", "error_code"},
	)

	PipelineJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"job_type"},
	)

	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_queue_depth",
			Help: "Best-effort depth of the work queues",
		},
		[]string{"queue"},
	)

	SchedulerTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_scheduler_ticks_total",
			Help: "Total number of completed scheduler ticks",
		},
	)

	SchedulerTickErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_scheduler_tick_errors_total",
			Help: "Total number of scheduler ticks that failed at loop level",
		},
	)
)
