package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/admin/district", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/district?id=1", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/admin/district", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "agriadmin_http_requests_total"))
}

func TestCountersAndNilReceiver(t *testing.T) {
	m := New()
	m.Login("success")
	m.Login("success")
	m.Rejected("blacklisted")
	m.Revoked()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthRejectionsTotal.WithLabelValues("blacklisted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenRevocations))

	var none *Metrics
	assert.NotPanics(t, func() {
		none.Login("success")
		none.Rejected("x")
		none.Revoked()
		none.Event("auth.login", "ok")
	})
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "ok", StatusClass(200))
	assert.Equal(t, "rejected", StatusClass(401))
	assert.Equal(t, "error", StatusClass(500))
}
