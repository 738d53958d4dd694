// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maps_provider_calls_total",
			Help: "Maps provider calls by operation and provider status",
		},
		[]string{"operation", "status"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maps_provider_call_duration_seconds",
			Help:    "Latency of maps provider calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	SearchTerms = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_terms_total",
			Help: "Search terms processed by outcome (ok, not_found, failed)",
		},
		[]string{"outcome"},
	)

	RecordsExported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_records_exported_total",
			Help: "Deduplicated business records written to exports",
		},
	)
)
