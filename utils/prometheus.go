package utils

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PrometheusRecordsReceived *prometheus.CounterVec
	PrometheusRecordsFailed   *prometheus.CounterVec
	PrometheusGroupsReleased  *prometheus.CounterVec
	PrometheusRowsWritten     *prometheus.CounterVec
	PrometheusLoadFailures    *prometheus.CounterVec

	PrometheusGroupsOpen      prometheus.Gauge
	PrometheusRecordsBuffered prometheus.Gauge

	PrometheusLoadDuration *prometheus.HistogramVec
)

func StartPrometheus(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(":"+port, mux)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("prometheus start error")
		}
	}()
	logger.Info().Str("port", port).Msg("Started prometheus")
}

func init() {
	PrometheusRecordsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dltsink_records_received",
		Help: "Records handed to the sink.",
	}, []string{"mode"})

	PrometheusRecordsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dltsink_records_failed",
		Help: "Records whose handling returned an error.",
	}, []string{"mode"})

	PrometheusGroupsReleased = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dltsink_groups_released",
		Help: "Groups released for bulk loading, by trigger.",
	}, []string{"trigger"})

	PrometheusRowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dltsink_rows_written",
		Help: "Rows reported written by the database.",
	}, []string{"mode"})

	PrometheusLoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dltsink_load_failures",
		Help: "Failed bulk loads, by trigger.",
	}, []string{"trigger"})

	PrometheusGroupsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dltsink_groups_open",
		Help: "Groups currently buffered.",
	})

	PrometheusRecordsBuffered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dltsink_records_buffered",
		Help: "Records currently buffered across all groups.",
	})

	PrometheusLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dltsink_load_duration_seconds",
		Help:    "Duration of bulk loads.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
}
