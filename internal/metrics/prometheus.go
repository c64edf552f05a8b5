package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector for Prometheus.
type PrometheusCollector struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	forcedLogouts prometheus.Counter
}

func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of backend requests by method, endpoint and status class",
			},
			[]string{"method", "endpoint", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Backend request latency",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
			},
			[]string{"method", "endpoint"},
		),
		forcedLogouts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forced_logouts_total",
				Help:      "Sessions cleared after an unauthorized response",
			},
		),
	}
}

// Register registers all metrics with the given registry.
func (pc *PrometheusCollector) Register(registry prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{pc.requests, pc.latency, pc.forcedLogouts} {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (pc *PrometheusCollector) RecordRequest(method, endpoint string, status int, duration time.Duration) {
	pc.requests.WithLabelValues(method, endpoint, StatusClass(status)).Inc()
	pc.latency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (pc *PrometheusCollector) RecordForcedLogout() {
	pc.forcedLogouts.Inc()
}
