// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a private registry plus the bakery's collectors.
type Metrics struct {
	Registry *prometheus.Registry

	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	OrdersCreated   *prometheus.CounterVec
	OrderTransition *prometheus.CounterVec
	CartSaves       prometheus.Counter
	OpenStreams     prometheus.Gauge
}

// New registers every collector on a fresh registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bakery",
			Name:      "rpc_requests_total",
			Help:      "RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bakery",
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bakery",
			Name:      "orders_created_total",
			Help:      "Orders placed, by fulfillment method and payment method.",
		}, []string{"method", "payment"}),
		OrderTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bakery",
			Name:      "order_status_changes_total",
			Help:      "Order status transitions, by target status.",
		}, []string{"status"}),
		CartSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bakery",
			Name:      "cart_saves_total",
			Help:      "Cart documents written.",
		}),
		OpenStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bakery",
			Name:      "rpc_open_streams",
			Help:      "Server streams currently open.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.OrdersCreated,
		m.OrderTransition,
		m.CartSaves,
		m.OpenStreams,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
