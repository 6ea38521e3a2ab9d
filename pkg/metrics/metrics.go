package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LoginAttemptsTotal counts login stages by outcome
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_login_attempts_total",
		Help: "Login stage results",
	}, []string{"stage", "result"})

	OrdersPlacedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_orders_placed_total",
		Help: "Orders placed by payment method",
	}, []string{"payment_method"})

	PanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_http_panics_total",
		Help: "Handler panics caught by the recover middleware",
	})

	PaymentsVerifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_payments_verified_total",
		Help: "Gateway payment verifications by result",
	}, []string{"result"})
)
