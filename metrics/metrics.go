package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bindb"

// Collector holds the service's prometheus collectors on its own registry.
type Collector struct {
	registry *prometheus.Registry

	lookups      *prometheus.CounterVec
	loadState    *prometheus.GaugeVec
	records      prometheus.Gauge
	skipped      prometheus.Gauge
	loadDuration prometheus.Gauge
	requests     *prometheus.HistogramVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "BIN lookups by kind and outcome.",
		}, []string{"kind", "outcome"}),
		loadState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "load_state",
			Help:      "1 for the current state of the bin data load.",
		}, []string{"state"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records in the loaded bin data.",
		}),
		skipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "skipped_rows",
			Help:      "Malformed rows skipped while loading.",
		}),
		loadDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent loading the bin data.",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	c.registry.MustRegister(
		c.lookups, c.loadState, c.records, c.skipped, c.loadDuration, c.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.loadState.WithLabelValues("loading").Set(1)
	return c
}

func (c *Collector) ObserveLookup(kind, outcome string) {
	c.lookups.WithLabelValues(kind, outcome).Inc()
}

func (c *Collector) ObserveLoad(state string, records, skipped int, duration time.Duration) {
	c.loadState.Reset()
	c.loadState.WithLabelValues(state).Set(1)
	c.records.Set(float64(records))
	c.skipped.Set(float64(skipped))
	c.loadDuration.Set(duration.Seconds())
}

func (c *Collector) ObserveRequest(method, route, status string, duration time.Duration) {
	c.requests.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
