package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках
// можно передавать nil.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbOpenConnections  *prometheus.GaugeVec
	dbInUseConnections *prometheus.GaugeVec
	dbIdleConnections  *prometheus.GaugeVec
	dbWaitCount        *prometheus.GaugeVec
	dbQueryDuration    *prometheus.HistogramVec

	cancellationsTotal *prometheus.CounterVec
	refundsTotal       *prometheus.CounterVec
	refundAmount       *prometheus.HistogramVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_cancellations_total",
			Help:        "Accepted booking cancellations by cancelling actor",
			ConstLabels: constLabels,
		}, []string{"cancelled_by"}),
		refundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_refunds_total",
			Help:        "Refund attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		refundAmount: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "booking_refund_amount",
			Help:        "Requested refund amounts",
			ConstLabels: constLabels,
			Buckets:     []float64{5, 10, 25, 50, 100, 200, 500, 1000},
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbOpenConnections,
		m.dbInUseConnections,
		m.dbIdleConnections,
		m.dbWaitCount,
		m.dbQueryDuration,
		m.cancellationsTotal,
		m.refundsTotal,
		m.refundAmount,
	)

	return m
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetDBStats обновляет метрики пула соединений
func (m *Metrics) SetDBStats(db string, open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConnections.WithLabelValues(db).Set(float64(open))
	m.dbInUseConnections.WithLabelValues(db).Set(float64(inUse))
	m.dbIdleConnections.WithLabelValues(db).Set(float64(idle))
	m.dbWaitCount.WithLabelValues(db).Set(float64(waitCount))
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCancellation фиксирует принятую отмену бронирования
func (m *Metrics) RecordCancellation(cancelledBy string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(cancelledBy).Inc()
}

// RecordRefund фиксирует результат возврата средств
func (m *Metrics) RecordRefund(outcome string, amount float64) {
	if m == nil {
		return
	}
	m.refundsTotal.WithLabelValues(outcome).Inc()
	m.refundAmount.WithLabelValues(outcome).Observe(amount)
}
