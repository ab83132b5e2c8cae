package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	DBPoolOpenConns prometheus.Gauge
	DBPoolIdleConns prometheus.Gauge
	DBPoolInUse     prometheus.Gauge

	BookingTransitionsTotal *prometheus.CounterVec
	ReconciliationsTotal    *prometheus.CounterVec
	StalePendingPayments    prometheus.Gauge
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"operation"}),

		DBPoolOpenConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: labels,
		}),

		DBPoolIdleConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: labels,
		}),

		DBPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}),

		BookingTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Total number of booking status transitions",
			ConstLabels: labels,
		}, []string{"from", "to"}),

		ReconciliationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_reconciliations_total",
			Help:        "Monetary operations that succeeded externally but failed to persist",
			ConstLabels: labels,
		}, []string{"operation"}),

		StalePendingPayments: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "bookings_stale_pending_payment",
			Help:        "Bookings stuck in pending_payment beyond the retention window",
			ConstLabels: labels,
		}),
	}
}

// IncBookingTransition увеличивает счетчик переходов статусов
func (m *Metrics) IncBookingTransition(from, to string) {
	m.BookingTransitionsTotal.WithLabelValues(from, to).Inc()
}

// IncReconciliation увеличивает счетчик расхождений денежных операций
func (m *Metrics) IncReconciliation(operation string) {
	m.ReconciliationsTotal.WithLabelValues(operation).Inc()
}

// SetStalePendingPayments записывает число зависших pending_payment бронирований
func (m *Metrics) SetStalePendingPayments(n int) {
	m.StalePendingPayments.Set(float64(n))
}
