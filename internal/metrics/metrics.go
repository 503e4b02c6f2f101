package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Outbound calls to the league backend.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "league_api_requests_total",
			Help: "Total number of league API requests made (by endpoint, method and status).",
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "league_api_request_duration_seconds",
			Help:    "Duration of league API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// Access-token refresh attempts. result = ok | failed | coalesced | skipped
	TokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "league_token_refresh_total",
			Help: "Access token refresh attempts by result.",
		},
		[]string{"result"},
	)

	SessionExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "league_session_expired_total",
			Help: "Sessions torn down because the refresh token was rejected.",
		},
	)

	NATSMessageCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_total",
			Help: "Total number of NATS messages published.",
		},
		[]string{"subject", "result"}, // result = "ok" | "error"
	)

	NATSMessageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nats_message_latency_seconds",
			Help:    "Time taken to publish NATS messages",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"subject"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "league_client_errors_total",
			Help: "Count of client-level errors by component.",
		},
		[]string{"component", "reason"},
	)

	LastPollTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "league_last_poll_timestamp",
			Help: "Timestamp (unix seconds) of the last successful standings poll.",
		},
		[]string{"league"},
	)
)

// ObserveDuration records the time since start on a histogram vector.
func ObserveDuration(h *prometheus.HistogramVec, start time.Time, labels ...string) {
	h.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
}

func IncAPIRequest(endpoint, method, status string) {
	APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

func IncTokenRefresh(result string) {
	TokenRefreshTotal.WithLabelValues(result).Inc()
}

func IncSessionExpired() {
	SessionExpiredTotal.Inc()
}

func IncNATSMessage(subject, result string) {
	NATSMessageCount.WithLabelValues(subject, result).Inc()
}

func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}

func SetLastPoll(league string, t time.Time) {
	LastPollTimestamp.WithLabelValues(league).Set(float64(t.Unix()))
}
