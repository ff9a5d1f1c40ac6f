package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/takumanken/feed/internal/ratelimit"
	"github.com/takumanken/feed/internal/utils"
	"github.com/takumanken/feed/pkg/logger"
	"go.uber.org/zap"
)

// RateLimit rejects callers, identified by remote address, once they exceed
// the limiter's quota. Rejected requests never reach the next handler.
func RateLimit(limiter ratelimit.Limiter, count int, window time.Duration) gin.HandlerFunc {
	message := fmt.Sprintf("Rate limit exceeded: %s", describeLimit(count, window))

	return func(c *gin.Context) {
		key := c.RemoteIP()

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// fail open
			logger.Log.Warn("Rate limit check failed", zap.String("client", key), zap.Error(err))
			c.Next()
			return
		}

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.NewErrorResponse(message))
			return
		}

		c.Next()
	}
}

// describeLimit renders a quota as "10 per 1 minute".
func describeLimit(count int, window time.Duration) string {
	switch {
	case window%time.Hour == 0:
		return fmt.Sprintf("%d per %d hour", count, int(window/time.Hour))
	case window%time.Minute == 0:
		return fmt.Sprintf("%d per %d minute", count, int(window/time.Minute))
	default:
		return fmt.Sprintf("%d per %d second", count, int(window/time.Second))
	}
}
