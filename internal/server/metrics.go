package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters published on /metrics.
var (
	chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shepherd_chat_requests_total",
		Help: "Chat requests by terminal outcome (success, degraded, rejected, error).",
	}, []string{"outcome"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shepherd_rate_limited_total",
		Help: "Requests refused by the sliding-window rate limiter.",
	})

	citationsReturned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shepherd_citations_returned_total",
		Help: "Scripture citations attached to chat responses.",
	})

	streamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shepherd_stream_clients",
		Help: "Open SSE connections.",
	})
)
