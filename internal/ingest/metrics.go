// Prometheus instrumentation for the refresh pipeline. Label cardinality is
// bounded: "endpoint" is one of the five provider endpoints, "outcome" is
// success|failed.
package ingest

import "github.com/prometheus/client_golang/prometheus"

var (
	// pagesFetched counts successfully fetched provider pages per endpoint.
	pagesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_pages_fetched_total",
			Help: "Total number of provider pages fetched successfully.",
		},
		[]string{"endpoint"},
	)

	// pageRetries counts page fetch retries per endpoint, regardless of the
	// eventual outcome of the page.
	pageRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_page_retries_total",
			Help: "Total number of page fetch retries.",
		},
		[]string{"endpoint"},
	)

	// recordsWritten counts catalog records written by the last refresh phase.
	recordsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_records_written_total",
			Help: "Total number of catalog records written across refreshes.",
		},
	)

	// refreshRuns counts completed refresh runs by outcome.
	refreshRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_refresh_runs_total",
			Help: "Total number of refresh runs by outcome.",
		},
		[]string{"outcome"},
	)

	// refreshDuration records end-to-end refresh duration. Buckets span the
	// seconds-to-hours range a full catalog pull can take.
	refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_refresh_duration_seconds",
			Help:    "End-to-end duration of refresh runs in seconds.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1s .. ~4.5h
		},
	)

	// pipelineState exposes the current pipeline state as its numeric code.
	pipelineState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_pipeline_state",
			Help: "Current pipeline state (0=idle 1=clearing 2=writing 3=complete 4=failed).",
		},
	)
)

func init() {
	prometheus.MustRegister(
		pagesFetched, pageRetries, recordsWritten,
		refreshRuns, refreshDuration, pipelineState,
	)
}
