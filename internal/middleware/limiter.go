package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"storefront-be/internal/apperr"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type Tier string

// Rate Limit Tiers
const (
	// Coupon redemption (Strict)
	TierStrict Tier = "strict"
	// Anonymous lookups: tracking, coupon preview
	TierPublic Tier = "public"
	// General (Default)
	TierGeneral Tier = "general"
	// Internal / trusted services
	TierInternal Tier = "internal"
)

type tierLimit struct {
	limit rate.Limit
	burst int
}

var tierLimits = map[Tier]tierLimit{
	TierStrict:   {rate.Limit(2), 5},
	TierPublic:   {rate.Limit(5), 10},
	TierGeneral:  {rate.Limit(10), 20},
	TierInternal: {rate.Limit(100), 200},
}

var ErrRateLimited = apperr.New(apperr.KindInvalidInput, "RATE_LIMITED", "too many requests")

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per caller and tier.
type Limiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	internalKey string
}

func NewLimiter(internalKey string) *Limiter {
	return &Limiter{
		visitors:    make(map[string]*visitor),
		internalKey: internalKey,
	}
}

// getVisitor retrieves or creates a rate limiter for the given key.
func (l *Limiter) getVisitor(key string, tl tierLimit) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(tl.limit, tl.burst)
		l.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup drops visitors idle for longer than ttl, every interval, until
// ctx is done.
func (l *Limiter) Cleanup(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evict(ttl)
		}
	}
}

func (l *Limiter) evict(ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, v := range l.visitors {
		if time.Since(v.lastSeen) > ttl {
			delete(l.visitors, key)
		}
	}
}

// RateLimit applies tier to the route. Internal callers always get the
// internal tier.
func (l *Limiter) RateLimit(tier Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		effective := tier
		if IsInternalCaller(c, l.internalKey) {
			effective = TierInternal
		}

		key := callerIdentity(c) + ":" + string(effective)
		if !l.getVisitor(key, tierLimits[effective]).Allow() {
			_, body := apperr.ToResponse(ErrRateLimited, false)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, body)
			return
		}

		c.Next()
	}
}

// callerIdentity prefers the account id, then a client device id, then
// the client IP.
func callerIdentity(c *gin.Context) string {
	if userID, ok := utils.GetUserIDFromContext(c.Request.Context()); ok {
		return "user:" + userID
	}
	if deviceID := c.GetHeader("X-Device-ID"); deviceID != "" {
		return "device:" + deviceID
	}
	return "ip:" + c.ClientIP()
}
