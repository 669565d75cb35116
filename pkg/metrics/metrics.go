package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "biomed"

// Collector owns the service's prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	transitions    *prometheus.CounterVec
	assumedCadence prometheus.Counter
	reportBuilds   *prometheus.CounterVec
	reportDuration prometheus.Histogram
	danglingOrders prometheus.Gauge
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "work_order_transitions_total",
				Help:      "Work order actions by kind and outcome",
			},
			[]string{"action", "result"},
		),
		assumedCadence: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assumed_cadence_rollovers_total",
			Help:      "Preventive closures that fell back to the six-month cadence",
		}),
		reportBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "annual_report_requests_total",
				Help:      "Annual report requests by cache outcome",
			},
			[]string{"cache"},
		),
		reportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "annual_report_build_seconds",
			Help:      "Time spent building an annual report",
			Buckets:   prometheus.DefBuckets,
		}),
		danglingOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dangling_work_orders",
			Help:      "Work orders referencing missing equipment at the last report build",
		}),
	}

	registry.MustRegister(
		c.transitions,
		c.assumedCadence,
		c.reportBuilds,
		c.reportDuration,
		c.danglingOrders,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveTransition(action string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	c.transitions.WithLabelValues(action, result).Inc()
}

func (c *Collector) ObserveAssumedCadence() {
	c.assumedCadence.Inc()
}

func (c *Collector) ObserveReport(cacheHit bool, seconds float64, dangling int) {
	if cacheHit {
		c.reportBuilds.WithLabelValues("hit").Inc()
		return
	}
	c.reportBuilds.WithLabelValues("miss").Inc()
	c.reportDuration.Observe(seconds)
	c.danglingOrders.Set(float64(dangling))
}
