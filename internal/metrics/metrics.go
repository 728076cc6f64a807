// Package metrics exposes the service's Prometheus collectors on a dedicated
// registry so the /metrics endpoint only reports our own series.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// Connections tracks the number of currently open SSE connections.
	Connections = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "sse_connections", Help: "Currently open SSE connections."},
	)
	// Broadcasts counts broadcast passes by event name.
	Broadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sse_broadcasts_total", Help: "Broadcast passes by event name."},
		[]string{"event"},
	)
	// Heartbeats counts keep-alive pings sent to live connections.
	Heartbeats = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sse_heartbeats_total", Help: "Keep-alive pings broadcast to live connections."},
	)
	// DeliveryFailures counts per-connection send failures during broadcasts.
	DeliveryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sse_delivery_failures_total", Help: "Connections dropped after a failed send."},
	)
	// CommentsCreated counts accepted comment posts.
	CommentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "comments_created_total", Help: "Comments accepted and broadcast."},
	)
)

var regOnce sync.Once

// Register installs all collectors on the registry. Safe to call more than
// once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(Connections)
		Registry.MustRegister(Broadcasts)
		Registry.MustRegister(Heartbeats)
		Registry.MustRegister(DeliveryFailures)
		Registry.MustRegister(CommentsCreated)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
