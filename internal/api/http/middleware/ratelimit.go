package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dtroode/ipgeo-server/internal/api/http/handler"
)

// DefaultIdleTTL is how long a client's bucket is kept after its last request.
const DefaultIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimit throttles requests per client IP with a token bucket.
type RateLimit struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func NewRateLimit(rps float64, burst int) *RateLimit {
	if burst < 1 {
		burst = 1
	}
	return &RateLimit{
		limit:     rate.Limit(rps),
		burst:     burst,
		idleTTL:   DefaultIdleTTL,
		now:       time.Now,
		visitors:  make(map[string]*visitor),
		lastSweep: time.Now(),
	}
}

func (r *RateLimit) limiter(key string) *rate.Limiter {
	now := r.now()

	r.mu.RLock()
	v, ok := r.visitors[key]
	r.mu.RUnlock()
	if ok {
		v.lastSeen.Store(now.UnixNano())
		return v.limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok = r.visitors[key]; ok {
		v.lastSeen.Store(now.UnixNano())
		return v.limiter
	}

	r.sweepLocked(now)

	v = &visitor{limiter: rate.NewLimiter(r.limit, r.burst)}
	v.lastSeen.Store(now.UnixNano())
	r.visitors[key] = v

	return v.limiter
}

// sweepLocked drops buckets idle for longer than idleTTL, at most once per idleTTL.
func (r *RateLimit) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < r.idleTTL {
		return
	}
	r.lastSweep = now

	cutoff := now.Add(-r.idleTTL).UnixNano()
	for key, v := range r.visitors {
		if v.lastSeen.Load() < cutoff {
			delete(r.visitors, key)
		}
	}
}

// Handle aborts with 429 once the client's bucket is empty.
func (r *RateLimit) Handle(c *gin.Context) {
	if !r.limiter(c.ClientIP()).Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.ErrorResponse{Error: "too many requests"})
		return
	}
	c.Next()
}
