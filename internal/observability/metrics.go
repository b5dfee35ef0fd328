package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// WeatherAPI call rate by HTTP outcome. Watch for: error vs success ratio.
	WeatherAPICallsTotal *prometheus.CounterVec

	// External API latency per request. Watch for: p99 close to weather_api.timeout.
	WeatherAPIDuration *prometheus.HistogramVec

	// Per-location fetch outcomes (result=success|failure).
	FetchesTotal *prometheus.CounterVec

	// Failed fetches by error category.
	FetchFailuresTotal *prometheus.CounterVec

	// Collection runs by result (success|write_error).
	RunsTotal *prometheus.CounterVec

	// Wall-clock time of a full run: every fetch plus the CSV write.
	RunDuration prometheus.Histogram

	// Attempted and succeeded counts of the most recent run.
	LastRunAttempted prometheus.Gauge
	LastRunSucceeded prometheus.Gauge

	// Unix time the most recent run finished.
	LastRunTimestamp prometheus.Gauge

	// Data rows written to CSV files.
	RecordsWrittenTotal prometheus.Counter

	// Ops HTTP surface (scheduled mode only).
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of WeatherAPI current-conditions calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "WeatherAPI latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherFetchesTotal",
			Help: "Per-location fetch outcomes",
		},
		[]string{"result"},
	)
	FetchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherFetchFailuresTotal",
			Help: "Failed per-location fetches by error category",
		},
		[]string{"category"},
	)
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collectionRunsTotal",
			Help: "Collection runs by result",
		},
		[]string{"result"},
	)
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collectionRunDurationSeconds",
			Help:    "Duration of a full collection run in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)
	LastRunAttempted = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collectionLastRunAttempted",
			Help: "Locations attempted in the most recent run",
		},
	)
	LastRunSucceeded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collectionLastRunSucceeded",
			Help: "Locations fetched successfully in the most recent run",
		},
	)
	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collectionLastRunTimestampSeconds",
			Help: "Unix time the most recent run finished",
		},
	)
	RecordsWrittenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "csvRecordsWrittenTotal",
			Help: "Total number of data rows written to CSV output",
		},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	registry.MustRegister(
		WeatherAPICallsTotal, WeatherAPIDuration,
		FetchesTotal, FetchFailuresTotal,
		RunsTotal, RunDuration,
		LastRunAttempted, LastRunSucceeded, LastRunTimestamp,
		RecordsWrittenTotal,
		HTTPRequestsTotal, HTTPRequestDuration,
	)
}

// RecordFetch counts one per-location outcome. category is ignored on success.
func RecordFetch(ok bool, category string) {
	if ok {
		FetchesTotal.WithLabelValues("success").Inc()
		return
	}
	FetchesTotal.WithLabelValues("failure").Inc()
	if category == "" {
		category = "unknown"
	}
	FetchFailuresTotal.WithLabelValues(category).Inc()
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// WriteMetricsFile writes the registry in text exposition format to path,
// for pickup by node_exporter's textfile collector after a one-shot run.
func WriteMetricsFile(path string) error {
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
