package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for wizard sessions.
type BookingMetrics struct {
	sessionsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	submitTotal      *prometheus.CounterVec
	submitLatency    prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		sessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deiw2",
			Subsystem: "booking",
			Name:      "sessions_total",
			Help:      "Wizard sessions opened and closed",
		}, []string{"event"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deiw2",
			Subsystem: "booking",
			Name:      "step_transitions_total",
			Help:      "Wizard step changes by target step",
		}, []string{"step"}),
		submitTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deiw2",
			Subsystem: "booking",
			Name:      "submit_total",
			Help:      "Wizard submissions by outcome",
		}, []string{"outcome"}),
		submitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "deiw2",
			Subsystem: "booking",
			Name:      "submit_latency_seconds",
			Help:      "Latency of the submission sink call",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsTotal, m.transitionsTotal, m.submitTotal, m.submitLatency)
	return m
}

func (m *BookingMetrics) ObserveSession(event string) {
	if m == nil {
		return
	}
	m.sessionsTotal.WithLabelValues(event).Inc()
}

func (m *BookingMetrics) ObserveTransition(step string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(step).Inc()
}

// ObserveSubmit records one sink call. outcome is success, failure, stale
// or unrecorded when the result could not be written back.
func (m *BookingMetrics) ObserveSubmit(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submitTotal.WithLabelValues(outcome).Inc()
	m.submitLatency.Observe(seconds)
}

// LeadMetrics counts stored leads and operator notifications.
type LeadMetrics struct {
	createdTotal *prometheus.CounterVec
	notifyTotal  *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deiw2",
			Subsystem: "leads",
			Name:      "created_total",
			Help:      "Leads created by source and status",
		}, []string{"source", "status"}),
		notifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deiw2",
			Subsystem: "leads",
			Name:      "notifications_total",
			Help:      "Operator notifications for new leads",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.notifyTotal)
	return m
}

func (m *LeadMetrics) ObserveCreated(source, status string) {
	if m == nil {
		return
	}
	m.createdTotal.WithLabelValues(source, status).Inc()
}

func (m *LeadMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notifyTotal.WithLabelValues(status).Inc()
}
