package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Cart
	CartItemsAdded *prometheus.CounterVec
	CartCleared    prometheus.Counter
	CartValue      prometheus.Histogram

	// Orders
	OrdersSubmitted *prometheus.CounterVec
	OrdersCreated   prometheus.Counter
	OrdersFailed    prometheus.Counter
	OrderValue      prometheus.Histogram

	// Payments
	PaymentSessions       *prometheus.CounterVec
	PaymentSessionsFailed prometheus.Counter

	// Email delivery
	EmailSent   prometheus.Counter
	EmailFailed prometheus.Counter

	// Address resolution
	AddressSearches *prometheus.CounterVec

	// Availability polling
	AvailabilityPolls       *prometheus.CounterVec
	AvailabilityPollsFailed prometheus.Counter
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "tienda"
	}

	subsystem := "business"

	return &BusinessMetrics{
		CartItemsAdded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total add-to-cart actions",
			},
			[]string{"merged"}, // merged: true when the line already existed
		),
		CartCleared: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total cart clears",
			},
		),
		CartValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value",
				Help:      "Cart total at submission time",
				Buckets:   prometheus.ExponentialBuckets(500, 2, 10),
			},
		),
		OrdersSubmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_submitted_total",
				Help:      "Total order submissions started",
			},
			[]string{"payment_method"},
		),
		OrdersCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders accepted by the backend",
			},
		),
		OrdersFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_failed_total",
				Help:      "Total order confirmations that failed",
			},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value",
				Help:      "Total amount of accepted orders",
				Buckets:   prometheus.ExponentialBuckets(500, 2, 10),
			},
		),
		PaymentSessions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_sessions_total",
				Help:      "Total gateway payment sessions created",
			},
			[]string{"provider"},
		),
		PaymentSessionsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_sessions_failed_total",
				Help:      "Total gateway payment session failures",
			},
		),
		EmailSent: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_emails_sent_total",
				Help:      "Total order confirmation emails dispatched",
			},
		),
		EmailFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_emails_failed_total",
				Help:      "Total order confirmation emails that failed",
			},
		),
		AddressSearches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "address_searches_total",
				Help:      "Total address searches reaching the geocoder",
			},
			[]string{"source"}, // source: input, map
		),
		AvailabilityPolls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "availability_polls_total",
				Help:      "Total schedule-status polls",
			},
			[]string{"state"},
		),
		AvailabilityPollsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "availability_polls_failed_total",
				Help:      "Total schedule-status polls that errored",
			},
		),
	}
}
