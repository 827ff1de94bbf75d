// Package metrics defines the Prometheus metrics for the UNIBlog client.
// It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "uniblog_client"

// RequestsTotal counts gated requests to the resource server.
// Labels:
//   - method: HTTP method
//   - outcome: "ok", "unauthorized", "request_failed", or "unreachable"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of requests sent through the authenticated gate.",
	},
	[]string{"method", "outcome"},
)

// RequestDuration measures the wall time of a gated request.
// Label:
//   - method: HTTP method
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of gated requests from send to classification.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionSignalsTotal counts session broadcasts.
// Label:
//   - signal: "login" or "logout"
var SessionSignalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_signals_total",
		Help:      "Total number of session signals emitted on the bus.",
	},
	[]string{"signal"},
)
