package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector exposes engine counters via Prometheus. Each collector owns
// its registry so multiple engines (and tests) never collide on metric
// registration; scrape it with Registry().
type Collector struct {
	registry *prometheus.Registry

	routesStarted   prometheus.Counter
	routesCompleted prometheus.Counter
	routesFailed    prometheus.Counter
	routesHalted    prometheus.Counter
	stepsExecuted   *prometheus.CounterVec
	activeRoutes    prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		routesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "chainroute_routes_started_total",
			Help: "Total number of route executions started",
		}),
		routesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "chainroute_routes_completed_total",
			Help: "Total number of routes completed successfully",
		}),
		routesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "chainroute_routes_failed_total",
			Help: "Total number of routes aborted by a step failure",
		}),
		routesHalted: factory.NewCounter(prometheus.CounterOpts{
			Name: "chainroute_routes_halted_total",
			Help: "Total number of routes stopped before completion",
		}),
		stepsExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chainroute_steps_executed_total",
			Help: "Total number of steps executed by terminal status",
		}, []string{"status"}),
		activeRoutes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "chainroute_active_routes",
			Help: "Number of currently registered routes",
		}),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RouteStarted() {
	c.routesStarted.Inc()
	c.activeRoutes.Inc()
}

func (c *Collector) RouteCompleted() {
	c.routesCompleted.Inc()
	c.activeRoutes.Dec()
}

func (c *Collector) RouteFailed() {
	c.routesFailed.Inc()
	c.activeRoutes.Dec()
}

// RouteHalted records an explicit stop; the registration may or may not
// survive, so the gauge is adjusted by the caller via RouteDeregistered.
func (c *Collector) RouteHalted() {
	c.routesHalted.Inc()
}

func (c *Collector) RouteDeregistered() {
	c.activeRoutes.Dec()
}

func (c *Collector) StepExecuted(status string) {
	c.stepsExecuted.WithLabelValues(status).Inc()
}
