// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func throttledRouter(t *ipThrottle) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(t.handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r *gin.Engine, addr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr + ":12345"
	r.ServeHTTP(w, req)
	return w
}

func TestThrottleRejectsAboveBurst(t *testing.T) {
	r := throttledRouter(newIPThrottle(rate.Every(time.Hour), 2, time.Hour))

	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1").Code)

	w := get(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestThrottleTracksClientsSeparately(t *testing.T) {
	r := throttledRouter(newIPThrottle(rate.Every(time.Hour), 1, time.Hour))

	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "10.0.0.1").Code)

	// A different address has its own untouched bucket.
	assert.Equal(t, http.StatusOK, get(r, "10.0.0.2").Code)
}

func TestThrottleRefillsOverTime(t *testing.T) {
	th := newIPThrottle(rate.Every(10*time.Millisecond), 1, time.Hour)
	r := throttledRouter(th)

	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "10.0.0.1").Code)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1").Code)
}
