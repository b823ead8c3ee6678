package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OrderCreated("mixed", 5000, 5000)
	m.OrderCreated("card_only", 0, 5000)
	m.PaymentEvent("duplicate")
	m.RemoteSync("ok")
	m.BalanceDrifts(2)

	assert.InDelta(t, 1, testutil.ToFloat64(m.ordersCreated.WithLabelValues("mixed")), 0)
	assert.InDelta(t, 10000, testutil.ToFloat64(m.bonusMoved.WithLabelValues("accrual")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.paymentEvents.WithLabelValues("duplicate")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.balanceDrifts), 0)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(m.Middleware())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	engine.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `bonusmart_http_requests_total{method="GET",path="/ping",status="204"} 1`))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated("mixed", 1, 1)
		m.PaymentEvent("ok")
		m.RemoteSync("error")
		m.SyncQueueLength(1)
		m.BalanceDrifts(0)
	})
}
