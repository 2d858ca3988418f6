// Package metrics provides Prometheus metrics for the Aster service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TeamsEnrichedTotal tracks teams enriched per run, labeled by match confidence
	TeamsEnrichedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "enrich",
			Name:      "teams_total",
			Help:      "Total number of teams processed by the enrichment pipeline, by match confidence",
		},
		[]string{"confidence"},
	)

	// IngestionRunDuration tracks the duration of full ingestion runs
	IngestionRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aster",
			Subsystem: "ingest",
			Name:      "run_duration_seconds",
			Help:      "Duration of full ingestion runs in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	// ReferenceRowsLoaded tracks reference dataset rows loaded per source
	ReferenceRowsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "aster",
			Subsystem: "ingest",
			Name:      "reference_rows",
			Help:      "Reference dataset rows loaded by the last ingestion run, by source",
		},
		[]string{"source"},
	)

	// HTTPRequestsTotal tracks API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks API request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aster",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)
