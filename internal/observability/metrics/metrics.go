// Package metrics exposes Prometheus instrumentation for the chat pipeline.
// All methods are nil-safe so instrumentation stays optional in tests and
// the CLI.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for conversation flows.
type ChatMetrics struct {
	messagesTotal    *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
	llmFailuresTotal *prometheus.CounterVec
	replyLatency     *prometheus.HistogramVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truckbot",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total processed chat messages",
		}, []string{"intent", "status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truckbot",
			Subsystem: "chat",
			Name:      "bookings_total",
			Help:      "Booking resolutions by outcome",
		}, []string{"status"}),
		llmFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truckbot",
			Subsystem: "chat",
			Name:      "llm_failures_total",
			Help:      "Completion requests that failed after fallback",
		}, []string{"intent"}),
		replyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "truckbot",
			Subsystem: "chat",
			Name:      "reply_latency_seconds",
			Help:      "End-to-end latency of message processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.bookingsTotal, m.llmFailuresTotal, m.replyLatency)
	return m
}

func (m *ChatMetrics) ObserveMessage(intent, status string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(intent, status).Inc()
}

func (m *ChatMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *ChatMetrics) ObserveLLMFailure(intent string) {
	if m == nil {
		return
	}
	m.llmFailuresTotal.WithLabelValues(intent).Inc()
}

func (m *ChatMetrics) ObserveReplyLatency(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.replyLatency.WithLabelValues(intent).Observe(seconds)
}
