package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the webhook instruments. They live on a private
// registry per server so tests can spin up handlers independently.
type metrics struct {
	registry       *prometheus.Registry
	events         *prometheus.CounterVec
	replies        prometheus.Counter
	deliveryErrors prometheus.Counter
	handleDuration prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatflow_webhook_events_total",
				Help: "Webhook events received, by event kind.",
			},
			[]string{"kind"},
		),
		replies: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chatflow_replies_total",
				Help: "Replies delivered to the messaging API.",
			},
		),
		deliveryErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chatflow_delivery_errors_total",
				Help: "Failed reply deliveries.",
			},
		),
		handleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatflow_handle_duration_seconds",
				Help:    "Time spent handling one webhook event.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.events, m.replies, m.deliveryErrors, m.handleDuration)
	return m
}
