package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/stockrit/stockrit/internal/config"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d: denied within burst", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("burst exhausted but request allowed")
	}

	// Budgets are per client
	if !limiter.Allow("10.0.0.2") {
		t.Error("second client denied by first client's budget")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(config.RateLimitConfig{RequestsPerMinute: 60, BurstSize: 2}))
	router.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := get(); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, w.Code)
		}
	}
	if w := get(); w.Code != http.StatusTooManyRequests {
		t.Errorf("over burst: status %d, want 429", w.Code)
	}
}
