package middleware

import (
	"net/http"
	"sync"
	"time"

	"chronoboard/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an IP's limiter survives without requests.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds a token bucket per client IP.
type RateLimiter struct {
	perMinute int
	burst     int
	name      string

	mu       sync.Mutex
	visitors map[string]*visitor
	lastGC   time.Time
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
func NewRateLimiter(name string, perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	if burst <= 0 {
		burst = perMinute
	}
	return &RateLimiter{
		perMinute: perMinute,
		burst:     burst,
		name:      name,
		visitors:  make(map[string]*visitor),
		lastGC:    time.Now(),
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (l *RateLimiter) getLimiter(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) > limiterIdleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastGC = now
	}

	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Middleware limits requests per IP address.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c)
		if !l.getLimiter(ip, time.Now()).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("limiter", l.name), zap.String("ip", ip))
			c.Header("Retry-After", "60")
			utils.JSONError(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.", nil)
			return
		}
		c.Next()
	}
}
