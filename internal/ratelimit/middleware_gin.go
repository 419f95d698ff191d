package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paylane/paylane/internal/config"
	obsmetrics "github.com/paylane/paylane/internal/observability/metrics"
	"go.uber.org/zap"
)

// GinMiddleware limits payment creation per caller IP. Without a configured
// bucket (no redis) it is a no-op, and a redis outage fails open: dropping
// writes because the limiter is down would be worse than not limiting.
func GinMiddleware(bucket *TokenBucket, cfg config.Config, metrics *obsmetrics.Metrics, log *zap.Logger) gin.HandlerFunc {
	if bucket == nil {
		return func(c *gin.Context) { c.Next() }
	}

	log = log.Named("ratelimit")
	return func(c *gin.Context) {
		key := "ratelimit:create:" + c.ClientIP()
		res, err := bucket.Allow(c.Request.Context(), key, cfg.CreateRateLimit, cfg.CreateRateBurst)
		if err != nil {
			log.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		if !res.Allowed {
			metrics.RecordRateLimitDenied(c.Request.Context(), c.FullPath(), "bucket_empty")
			retryAfter := int(res.RetryAfter / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		metrics.RecordRateLimitAllowed(c.Request.Context(), c.FullPath())
		c.Next()
	}
}
