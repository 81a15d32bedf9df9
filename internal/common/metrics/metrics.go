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
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
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
)

// Engine metrics
var (
	SavingsEstimates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "savings_estimates_total",
			Help: "Savings estimates by result (ok or the error code)",
		},
		[]string{"result"},
	)

	LeadScores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_scores_total",
			Help: "Scored leads by priority tier",
		},
		[]string{"priority"},
	)

	LeadSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_submissions_total",
			Help: "Lead submission attempts by outcome",
		},
		[]string{"outcome"},
	)

	LeadSubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lead_submission_duration_seconds",
			Help:    "Duration of a single lead sink call",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)
)
