package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction statuses used as metric labels
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	predictions        *prometheus.CounterVec
	predictionDuration prometheus.Histogram
	modelLoads         *prometheus.CounterVec
	modelLoadDuration  prometheus.Gauge
	alive              prometheus.Gauge
	ready              prometheus.Gauge
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewCollector creates a collector registered on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iris_predictions_total",
				Help: "Total number of predictions by outcome",
			},
			[]string{"status"},
		),
		predictionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "iris_prediction_duration_seconds",
				Help:    "Model invocation duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		modelLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iris_model_loads_total",
				Help: "Total number of model load attempts by outcome",
			},
			[]string{"status"},
		),
		modelLoadDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "iris_model_load_duration_seconds",
				Help: "Duration of the last model load in seconds",
			},
		),
		alive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "iris_service_alive",
				Help: "1 if the service is alive",
			},
		),
		ready: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "iris_service_ready",
				Help: "1 if the model is loaded and the service is ready",
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iris_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "iris_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RecordModelLoad records the outcome of the startup model load
func (c *Collector) RecordModelLoad(success bool, duration time.Duration) {
	status := StatusSuccess
	if !success {
		status = StatusError
	}
	c.modelLoads.WithLabelValues(status).Inc()
	c.modelLoadDuration.Set(duration.Seconds())
}

// RecordPrediction records a prediction outcome and its model latency
func (c *Collector) RecordPrediction(status string, duration time.Duration) {
	c.predictions.WithLabelValues(status).Inc()
	c.predictionDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records a handled HTTP request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ReportHealth sets the alive and ready gauges
func (c *Collector) ReportHealth(alive, ready bool) {
	c.alive.Set(boolToFloat(alive))
	c.ready.Set(boolToFloat(ready))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
