// Package metrics provides Prometheus metrics for the price watch pipeline.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricewatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Provider Metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_provider_requests_total",
			Help: "Provider API requests by provider and outcome",
		},
		[]string{"provider", "result"}, // result: "ok", "not_found", "transient"
	)

	ProviderRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_provider_retries_total",
			Help: "Timeout retries by provider",
		},
		[]string{"provider"},
	)

	// Ingestion Metrics
	FetchRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewatch_fetch_runs_total",
			Help: "Total number of ingestion runs started",
		},
	)

	CardsProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewatch_cards_processed_total",
			Help: "Cards successfully fetched and handed to the snapshot store",
		},
	)

	CardsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewatch_cards_skipped_total",
			Help: "Watchlist entries skipped after all providers failed",
		},
	)

	SnapshotRowsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewatch_snapshot_rows_written_total",
			Help: "Price snapshot rows written to the store",
		},
	)

	FetchRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricewatch_fetch_run_duration_seconds",
			Help:    "Time taken for a full watchlist ingestion run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	// Resolver Metrics
	NameCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewatch_name_cache_hits_total",
			Help: "Name-to-ID resolution cache hit count",
		},
	)

	NameCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewatch_name_cache_misses_total",
			Help: "Name-to-ID resolution cache miss count",
		},
	)
)
