package rest

import (
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	identityKey     = "identity"
)

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Request = c.Request.WithContext(logging.ContextWith(c.Request.Context(), "request_id", rid))
		c.Next()
	}
}

// requestLogger writes one line per request, with the level chosen by status.
func (s *RESTServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			s.logger.Error(ctx, "http_request", args...)
		case status >= 400:
			s.logger.Warn(ctx, "http_request", args...)
		default:
			s.logger.Info(ctx, "http_request", args...)
		}
	}
}

// authenticate resolves the bearer token to a fresh identity and stores it
// on the gin context. Requests without a valid identity stop here.
func (s *RESTServer) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := s.users.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func identityFrom(c *gin.Context) models.Identity {
	v, _ := c.Get(identityKey)
	identity, _ := v.(models.Identity)
	return identity
}

const minLimiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than a full refill are swept, so a returning client sees no difference.
type RateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	idle := minLimiterIdle
	if r > 0 && r != rate.Inf {
		if full := time.Duration(float64(b) / float64(r) * float64(time.Second)); full > idle {
			idle = full
		}
	}

	return &RateLimiter{
		ips:       make(map[string]*visitor),
		rate:      r,
		burst:     b,
		idle:      idle,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idle {
		rl.sweep(now)
	}

	v, ok := rl.ips[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) sweep(now time.Time) {
	for ip, v := range rl.ips {
		if now.Sub(v.lastSeen) >= rl.idle {
			delete(rl.ips, ip)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}
