package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveSession("started")
	m.ObserveSession("started")
	m.ObserveTransition("1", "2")
	m.ObserveRejection("advance", "incomplete")
	m.ObserveConfirmed("")
	m.ObservePayment("approved", 2.0)
	m.ObserveNotification("stub", "sent")
	m.ObserveArchive("skipped")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsTotal.WithLabelValues("started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.confirmedTotal.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsTotal.WithLabelValues("stub", "sent")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var hist *dto.Histogram
	for _, f := range families {
		if f.GetName() == "luxe_booking_payment_seconds" {
			hist = f.GetMetric()[0].GetHistogram()
		}
	}
	require.NotNil(t, hist)
	assert.Equal(t, uint64(1), hist.GetSampleCount())
	assert.Equal(t, 2.0, hist.GetSampleSum())
}

func TestBookingMetricsDefaultRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	prev := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = reg
	defer func() { prometheus.DefaultRegisterer = prev }()

	m := NewBookingMetrics(nil)
	m.ObserveSession("abandoned")
	assert.Equal(t, 1, testutil.CollectAndCount(m.sessionsTotal))
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveSession("started")
	m.ObserveTransition("1", "2")
	m.ObserveRejection("advance", "incomplete")
	m.ObserveConfirmed("hair")
	m.ObservePayment("approved", 1)
	m.ObserveNotification("stub", "sent")
	m.ObserveArchive("ok")
}
