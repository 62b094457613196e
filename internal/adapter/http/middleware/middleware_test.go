package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"todoservice/internal/adapter/http/middleware"
	"todoservice/internal/adapter/logger"
	"todoservice/internal/config"
	"todoservice/internal/core/model/response"
	"todoservice/internal/core/telemetry"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)

	router.GET("/todos", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": middleware.RequestIDFromContext(c.Request.Context())})
	})

	return router
}

func TestRateLimiter_RejectsAfterLimit(t *testing.T) {
	RegisterTestingT(t)

	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{
		Enabled:  true,
		Requests: 2,
		Window:   time.Minute,
	}, logger.NewNop(), metrics)

	router := newRouter(limiter.Middleware())

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/todos", nil)
		router.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusOK))
	}

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/todos", nil)
	router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusTooManyRequests))
	Expect(rr.Header().Get("X-RateLimit-Remaining")).To(Equal("0"))
	Expect(rr.Header().Get("Retry-After")).NotTo(BeEmpty())

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(rr.Body.Bytes(), &errorResponse)

	Expect(errorResponse.Error.Code).To(Equal("RATE_LIMITED"))
}

func TestRateLimiter_SeparatesClients(t *testing.T) {
	RegisterTestingT(t)

	limiter := middleware.NewRateLimiter(config.RateLimitConfig{
		Enabled:  true,
		Requests: 1,
		Window:   time.Minute,
	}, logger.NewNop(), nil)

	router := newRouter(limiter.Middleware())

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/todos", nil)
		req.RemoteAddr = addr
		router.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusOK))
	}
}

func TestRequestID(t *testing.T) {
	router := newRouter(middleware.RequestID())

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/todos", nil)
	router.ServeHTTP(rr, req)

	generated := rr.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Contains(t, rr.Body.String(), generated)

	rr = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/todos", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	router.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(middleware.RequestIDHeader))
}

func TestCORS(t *testing.T) {
	router := newRouter(middleware.CORS([]string{"http://localhost:3000"}))

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/todos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/todos", nil)
	req.Header.Set("Origin", "http://evil.example")
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPSRedirect(t *testing.T) {
	router := newRouter(middleware.HTTPSRedirect(logger.NewNop()))

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "http://api.example.com/todos", nil)
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMovedPermanently, rr.Code)
	assert.Equal(t, "https://api.example.com/todos", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "http://api.example.com/todos", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
