package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal      *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	currentPrediction *prometheus.GaugeVec
	latency           *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksight_fetches_total",
				Help: "Total number of prediction service fetches",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksight_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		currentPrediction: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocksight_current_prediction",
				Help: "Latest extra-day predicted price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksight_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records a completed fetch from the prediction service.
func (r *Recorder) RecordFetch(symbol string) {
	r.fetchesTotal.WithLabelValues(symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCurrentPrediction records the latest extra-day prediction for a symbol.
func (r *Recorder) RecordCurrentPrediction(symbol string, price float64) {
	r.currentPrediction.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
