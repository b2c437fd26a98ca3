package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(sinkAppendLatencyMs, sinkAppendFailuresTotal)
}

var (
	sinkAppendLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sink_append_latency_ms",
			Help:    "Spreadsheet append latency distribution in milliseconds.",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"worksheet", "success"},
	)

	sinkAppendFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sink_append_failures_total",
			Help: "Spreadsheet appends that returned an error, by worksheet.",
		},
		[]string{"worksheet"},
	)
)

func ObserveSinkAppend(worksheet string, latencyMs int64, success bool) {
	sinkAppendLatencyMs.WithLabelValues(norm(worksheet), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
	if !success {
		sinkAppendFailuresTotal.WithLabelValues(norm(worksheet)).Inc()
	}
}
