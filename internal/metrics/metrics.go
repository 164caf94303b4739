package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_http_requests_total",
			Help: "HTTP requests handled, by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "todo_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_cache_lookups_total",
			Help: "List cache lookups, by result (hit|miss)",
		},
		[]string{"result"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_events_published_total",
			Help: "Todo change events published, by type and outcome",
		},
		[]string{"type", "outcome"},
	)
	EventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_events_consumed_total",
			Help: "Todo change events consumed by the worker, by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, CacheLookups, EventsPublished, EventsConsumed)
}
