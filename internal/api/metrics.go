package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "physiosim"

type Metrics struct {
	Requests   *prometheus.CounterVec
	Latency    *prometheus.HistogramVec
	NetScore   prometheus.Histogram
	Critical   prometheus.Counter
	BatchSizes prometheus.Histogram
}

// NewMetrics registers the API collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"route"}),
		NetScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_net_score",
			Help:      "Net score of evaluated stacks.",
			Buckets:   prometheus.LinearBuckets(-10, 2.5, 13),
		}),
		Critical: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "critical_snapshots_total",
			Help:      "Snapshots flagged critical.",
		}),
		BatchSizes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Regimens per batch request.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
	reg.MustRegister(m.Requests, m.Latency, m.NetScore, m.Critical, m.BatchSizes)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}
