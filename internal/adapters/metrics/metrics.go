// Package metrics exposes prometheus collectors for the HTTP surface and
// the ledger. All methods are safe on a nil *Metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer        prometheus.Gatherer
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ordersCreated   *prometheus.CounterVec
	bonusMoved      *prometheus.CounterVec
	paymentEvents   *prometheus.CounterVec
	remoteSync      *prometheus.CounterVec
	balanceDrifts   prometheus.Gauge
	syncQueueLength prometheus.Gauge
}

// New registers the collectors in reg. Passing nil uses the default
// registry.
func New(reg *prometheus.Registry) *Metrics {
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	factory := promauto.With(registerer)

	return &Metrics{
		gatherer: gatherer,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bonusmart_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bonusmart_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ordersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bonusmart_orders_created_total",
			Help: "Orders settled, by payment method",
		}, []string{"payment_method"}),
		bonusMoved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bonusmart_bonus_amount_total",
			Help: "Bonuses written off or accrued by orders",
		}, []string{"direction"}),
		paymentEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bonusmart_payment_events_total",
			Help: "Inbound payment events, by outcome",
		}, []string{"outcome"}),
		remoteSync: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bonusmart_remote_sync_total",
			Help: "CRM lead sync attempts, by result",
		}, []string{"result"}),
		balanceDrifts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bonusmart_balance_drifts",
			Help: "Users whose balance disagrees with the transaction log at the last audit",
		}),
		syncQueueLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bonusmart_remote_sync_queue_length",
			Help: "Orders waiting for CRM sync",
		}),
	}
}

func (m *Metrics) OrderCreated(paymentMethod string, writeoff, accrual int64) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(paymentMethod).Inc()
	m.bonusMoved.WithLabelValues("writeoff").Add(float64(writeoff))
	m.bonusMoved.WithLabelValues("accrual").Add(float64(accrual))
}

func (m *Metrics) PaymentEvent(outcome string) {
	if m == nil {
		return
	}
	m.paymentEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RemoteSync(result string) {
	if m == nil {
		return
	}
	m.remoteSync.WithLabelValues(result).Inc()
}

func (m *Metrics) SyncQueueLength(n int) {
	if m == nil {
		return
	}
	m.syncQueueLength.Set(float64(n))
}

func (m *Metrics) BalanceDrifts(n int) {
	if m == nil {
		return
	}
	m.balanceDrifts.Set(float64(n))
}

// Middleware records request count and latency by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	if m == nil {
		return gin.WrapH(promhttp.Handler())
	}
	return gin.WrapH(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
