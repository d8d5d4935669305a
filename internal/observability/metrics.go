package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trv_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trv_request_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trv_bookings_created_total",
			Help: "Total bookings created",
		},
	)

	BookingsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trv_bookings_cancelled_total",
			Help: "Total bookings cancelled",
		},
	)

	Restocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trv_restocks_total",
			Help: "Total low-stock auto-restocks applied before a reservation",
		},
	)

	ReservationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trv_reservation_conflicts_total",
			Help: "Reservations rejected because no availability remained",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trv_rate_limit_exceeded_total",
			Help: "Total rate limit rejections",
		},
	)
)
