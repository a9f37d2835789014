package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	before := testutil.ToFloat64(NormalizationsTotal.WithLabelValues("recovery"))
	ObserveNormalization("recovery")
	assert.Equal(t, before+1, testutil.ToFloat64(NormalizationsTotal.WithLabelValues("recovery")))

	before = testutil.ToFloat64(GatewayCallsTotal.WithLabelValues("timeout"))
	ObserveGatewayCall("timeout", 2*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(GatewayCallsTotal.WithLabelValues("timeout")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Register()
	Register()

	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(Handler()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `mealmind_http_latency_seconds_count{method="GET",route="/ping",status_code="200"}`)
}
