package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of bookings created",
	})

	BookingTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Total number of booking status transitions",
	}, []string{"to"})

	BookingTransitionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_transition_conflicts_total",
		Help: "Transitions rejected by the optimistic-concurrency status check",
	})

	ReminderScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_scans_total",
		Help: "Total number of reminder scan ticks executed",
	})

	ReminderScansSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminder_scans_skipped_total",
		Help: "Scan ticks skipped because a previous scan still held the guard or lock",
	}, []string{"reason"})

	RemindersSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Total number of reminders dispatched",
	}, []string{"offset", "role"})

	RemindersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_failed_total",
		Help: "Total number of reminder dispatch failures",
	}, []string{"offset", "role"})

	ReminderScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reminder_scan_duration_seconds",
		Help:    "Duration of a full reminder scan tick",
		Buckets: prometheus.DefBuckets,
	})

	AchievementsGrantedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "achievements_granted_total",
		Help: "Total number of achievement grants",
	})

	ReviewsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_submitted_total",
		Help: "Total number of accepted reviews",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

// RequestTimer measures elapsed wall time for a single request.
type RequestTimer struct {
	start time.Time
}

func NewRequestTimer() RequestTimer {
	return RequestTimer{start: time.Now()}
}

func (t RequestTimer) Seconds() float64 {
	return time.Since(t.start).Seconds()
}
