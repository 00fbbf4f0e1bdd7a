// Package metrics exposes catalog load and query measurements to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

const namespace = "foodsearch"

// Query outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeClientError = "client_error"
	OutcomeError       = "error"
)

// Collector records measurements on its own registry and implements
// core.Observer.
type Collector struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	queryMatches  *prometheus.HistogramVec
	loads         *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	catalogRows   prometheus.Gauge
	httpRequests  *prometheus.CounterVec
}

var _ core.Observer = (*Collector)(nil)

// New creates a Collector with Go runtime and process collectors registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Catalog queries by mode and outcome.",
		}, []string{"mode", "outcome"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time spent filtering and sorting the catalog.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"mode"}),
		queryMatches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_matches",
			Help:      "Rows matched per query before the result cap.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}, []string{"mode"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts by outcome.",
		}, []string{"outcome"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_load_duration_seconds",
			Help:      "Time spent reading and joining the catalog tables.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		catalogRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_rows",
			Help:      "Rows in the canonical food table of the current snapshot.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.queries,
		c.queryDuration,
		c.queryMatches,
		c.loads,
		c.loadDuration,
		c.catalogRows,
		c.httpRequests,
	)
	return c
}

// ObserveLoad records one catalog load attempt.
func (c *Collector) ObserveLoad(_ string, foods int, d time.Duration, err error) {
	if err != nil {
		c.loads.WithLabelValues(OutcomeError).Inc()
		return
	}
	c.loads.WithLabelValues(OutcomeOK).Inc()
	c.loadDuration.Observe(d.Seconds())
	c.catalogRows.Set(float64(foods))
}

// ObserveQuery records one query.
func (c *Collector) ObserveQuery(mode core.Mode, matches int, d time.Duration, err error) {
	label := mode.String()
	c.queries.WithLabelValues(label, outcome(err)).Inc()
	if err != nil {
		return
	}
	c.queryDuration.WithLabelValues(label).Observe(d.Seconds())
	c.queryMatches.WithLabelValues(label).Observe(float64(matches))
}

// ObserveRequest records one HTTP response.
func (c *Collector) ObserveRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case core.IsClientError(err):
		return OutcomeClientError
	default:
		return OutcomeError
	}
}
