package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking wizard.
type BookingMetrics struct {
	sessionsTotal      *prometheus.CounterVec
	transitionsTotal   *prometheus.CounterVec
	rejectionsTotal    *prometheus.CounterVec
	confirmedTotal     *prometheus.CounterVec
	paymentLatency     *prometheus.HistogramVec
	notificationsTotal *prometheus.CounterVec
	archiveTotal       *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		sessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luxe",
			Subsystem: "booking",
			Name:      "sessions_total",
			Help:      "Wizard sessions by lifecycle event",
		}, []string{"event"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luxe",
			Subsystem: "booking",
			Name:      "step_transitions_total",
			Help:      "Accepted step changes",
		}, []string{"from", "to"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luxe",
			Subsystem: "booking",
			Name:      "rejections_total",
			Help:      "Wizard actions rejected by validation or step guards",
		}, []string{"action", "reason"}),
		confirmedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luxe",
			Subsystem: "booking",
			Name:      "confirmed_total",
			Help:      "Confirmed bookings by service category",
		}, []string{"category"}),
		paymentLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "luxe",
			Subsystem: "booking",
			Name:      "payment_seconds",
			Help:      "Time spent processing payments",
			Buckets:   []float64{0.1, 0.5, 1, 2, 3, 5, 10},
		}, []string{"status"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luxe",
			Subsystem: "notify",
			Name:      "confirmations_total",
			Help:      "Confirmation deliveries by transport and outcome",
		}, []string{"transport", "outcome"}),
		archiveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luxe",
			Subsystem: "confirmation",
			Name:      "archive_total",
			Help:      "Confirmation archive uploads by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.sessionsTotal,
		m.transitionsTotal,
		m.rejectionsTotal,
		m.confirmedTotal,
		m.paymentLatency,
		m.notificationsTotal,
		m.archiveTotal,
	)
	return m
}

// ObserveSession counts started, abandoned and expired sessions.
func (m *BookingMetrics) ObserveSession(event string) {
	if m == nil {
		return
	}
	m.sessionsTotal.WithLabelValues(event).Inc()
}

func (m *BookingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveRejection(action, reason string) {
	if m == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(action, reason).Inc()
}

func (m *BookingMetrics) ObserveConfirmed(category string) {
	if m == nil {
		return
	}
	if category == "" {
		category = "unknown"
	}
	m.confirmedTotal.WithLabelValues(category).Inc()
}

func (m *BookingMetrics) ObservePayment(status string, seconds float64) {
	if m == nil {
		return
	}
	m.paymentLatency.WithLabelValues(status).Observe(seconds)
}

func (m *BookingMetrics) ObserveNotification(transport, outcome string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(transport, outcome).Inc()
}

func (m *BookingMetrics) ObserveArchive(status string) {
	if m == nil {
		return
	}
	m.archiveTotal.WithLabelValues(status).Inc()
}
