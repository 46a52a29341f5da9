// Package metrics defines the Prometheus collectors for the voice agent.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_agent_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voice_agent_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// RepliesTotal counts resolved replies; source is "model" or "fallback".
	RepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_agent_replies_total",
			Help: "Total number of replies resolved, by detected language and source.",
		},
		[]string{"language", "source"},
	)

	TranscriptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_agent_transcriptions_total",
			Help: "Total number of audio transcription attempts, by outcome.",
		},
		[]string{"status"},
	)

	SynthesisFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_agent_synthesis_failures_total",
			Help: "Total number of text-to-speech failures (replies degraded to text-only).",
		},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "voice_agent_ws_connections",
			Help: "Number of open chat WebSocket connections.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RepliesTotal,
		TranscriptionsTotal,
		SynthesisFailuresTotal,
		ActiveConnections,
	)
}
