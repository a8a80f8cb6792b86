// Package telemetry holds the prometheus instruments for the panel
// daemon. Mount MetricsHandler on the status web server to expose
// them.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	LinkRoundTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reactorpanel",
			Name:      "link_round_trips_total",
			Help:      "Completed link calls by node and outcome.",
		},
		[]string{"node", "outcome"},
	)

	LinkRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reactorpanel",
			Name:      "link_retries_total",
			Help:      "Individual failed link attempts, including those later retried successfully.",
		},
		[]string{"node"},
	)

	LinkRoundTripSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reactorpanel",
			Name:      "link_round_trip_seconds",
			Help:      "Latency of successful link calls, retries included.",
			// 1ms .. ~2s covers one full retry budget.
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"node"},
	)

	Events = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reactorpanel",
			Name:      "input_events_total",
			Help:      "Input events by kind.",
		},
		[]string{"kind"},
	)

	EventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reactorpanel",
			Name:      "input_events_dropped_total",
			Help:      "Events discarded because the queue was full.",
		},
	)

	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reactorpanel",
			Name:      "input_queue_depth",
			Help:      "Current number of events waiting in the input queue.",
		},
	)

	InterlockDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reactorpanel",
			Name:      "interlock_denials_total",
			Help:      "Actuator commands refused by the interlock, by first failed precondition.",
		},
		[]string{"reason"},
	)

	Scrams = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reactorpanel",
			Name:      "scrams_total",
			Help:      "Emergency stop activations.",
		},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "reactorpanel",
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(
		LinkRoundTrips, LinkRetries, LinkRoundTripSeconds,
		Events, EventsDropped, QueueDepth,
		InterlockDenials, Scrams, uptime,
	)
}

// MetricsHandler exposes /metrics for the panel registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
