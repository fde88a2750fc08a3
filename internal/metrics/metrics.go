// Package metrics provides Prometheus collectors for the station service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Retrieval pipeline metrics
	RetrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "station_retrievals_total",
			Help: "Station data retrievals by outcome",
		},
		[]string{"outcome"},
	)

	RetrievalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "station_retrieval_duration_seconds",
			Help:    "Time taken to resolve, locate and parse the latest station file",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"outcome"},
	)

	RecordsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "station_records_parsed_total",
			Help: "Data file lines parsed into records",
		},
		[]string{"station_id"},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Snapshot publisher metrics
	PublishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mqtt_snapshot_publishes_total",
			Help: "Station snapshots published over MQTT by status",
		},
		[]string{"status"},
	)
)

// Outcome labels for retrieval metrics.
const (
	OutcomeOK            = "ok"
	OutcomeNoStation     = "no_station"
	OutcomeUnknown       = "unknown_station"
	OutcomeNoDataFile    = "no_data_file"
	OutcomeBadTimestamp  = "bad_timestamp"
	OutcomeEmptyFile     = "empty_file"
	OutcomeInternalError = "error"
)

func RecordRetrieval(outcome string, d time.Duration) {
	RetrievalsTotal.WithLabelValues(outcome).Inc()
	RetrievalDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
