package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetRowsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "carprice_dataset_rows_loaded_total",
			Help: "Total number of rows read from source datasets",
		},
	)

	DatasetRowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_dataset_rows_dropped_total",
			Help: "Total number of rows dropped because the target was missing",
		},
		[]string{"target"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_predictions_total",
			Help: "Total number of prediction requests by outcome",
		},
		[]string{"outcome"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carprice_prediction_duration_seconds",
			Help:    "Duration of a prediction round trip in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
	)

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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of jobs currently being processed",
		},
		[]string{"task_type"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)
)

// Prediction outcomes.
const (
	OutcomeSucceeded       = "succeeded"
	OutcomeInvalid         = "invalid"
	OutcomeFailedEmpty     = "failed_empty"
	OutcomeFailedTransport = "failed_transport"
)
