package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bgcompose/internal/ratelimit"
)

type RateLimiter interface {
	Allow(ctx context.Context, subject string) (ratelimit.Decision, error)
}

// withRateLimit guards the compose route. Limiter errors fail open: a
// broken Redis should degrade to unlimited service, not an outage.
func (s *Server) withRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		subject := c.ClientIP()
		decision, err := s.limiter.Allow(c.Request.Context(), subject)
		if err != nil {
			s.logger.Warn("rate limiter check failed",
				zap.String("subject", subject),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		if decision.Allowed {
			c.Next()
			return
		}

		retryAfter := int(decision.RetryAfter.Round(time.Second).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		s.metrics.rateLimitRejected.Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "rate limit exceeded",
		})
	}
}
