// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipThrottle keeps one token bucket per client address. Buckets idle
// longer than staleAfter are swept out so the map does not grow with
// every address ever seen.
type ipThrottle struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	limit      rate.Limit
	burst      int
	staleAfter time.Duration
}

type bucket struct {
	limiter *rate.Limiter
	touched time.Time
}

func newIPThrottle(limit rate.Limit, burst int, staleAfter time.Duration) *ipThrottle {
	t := &ipThrottle{
		buckets:    make(map[string]*bucket),
		limit:      limit,
		burst:      burst,
		staleAfter: staleAfter,
	}
	go t.sweep()
	return t
}

func (t *ipThrottle) sweep() {
	ticker := time.NewTicker(t.staleAfter)
	for range ticker.C {
		t.mu.Lock()
		for addr, b := range t.buckets {
			if time.Since(b.touched) > t.staleAfter {
				delete(t.buckets, addr)
			}
		}
		t.mu.Unlock()
	}
}

func (t *ipThrottle) allow(addr string) bool {
	t.mu.Lock()
	b, ok := t.buckets[addr]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.buckets[addr] = b
	}
	b.touched = time.Now()
	t.mu.Unlock()

	return b.limiter.Allow()
}

func (t *ipThrottle) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"code": "RATE_LIMITED", "message": "Too many requests"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Catalog pages are read-heavy, so the general tier allows sustained
// browsing with a generous burst. Credential and upload endpoints get
// much tighter budgets.
var (
	browseThrottle = newIPThrottle(rate.Limit(20), 40, 10*time.Minute)
	authThrottle   = newIPThrottle(rate.Every(12*time.Second), 5, 10*time.Minute)
	uploadThrottle = newIPThrottle(rate.Every(10*time.Second), 6, 10*time.Minute)
)

func GeneralRateLimit() gin.HandlerFunc {
	return browseThrottle.handler()
}

func AuthRateLimit() gin.HandlerFunc {
	return authThrottle.handler()
}

func UploadRateLimit() gin.HandlerFunc {
	return uploadThrottle.handler()
}
