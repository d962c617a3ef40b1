package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveSession("opened")
	m.ObserveSession("opened")
	m.ObserveTransition("DATE")
	m.ObserveSubmit("success", 0.2)
	m.ObserveSubmit("failure", 0.1)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.sessionsTotal.WithLabelValues("opened")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transitionsTotal.WithLabelValues("DATE")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submitTotal.WithLabelValues("failure")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.submitLatency))
}

func TestLeadMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)
	m.ObserveCreated("service_modal", "new")
	m.ObserveNotification("sent")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.createdTotal.WithLabelValues("service_modal", "new")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.notifyTotal.WithLabelValues("sent")))
}

func TestMetricsNilSafe(t *testing.T) {
	var b *BookingMetrics
	b.ObserveSession("opened")
	b.ObserveTransition("FORM")
	b.ObserveSubmit("success", 0.1)

	var l *LeadMetrics
	l.ObserveCreated("home_form", "new")
	l.ObserveNotification("failed")
}
