package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const issueLimitWindow = 24 * time.Hour

// IssueRateLimiter caps how many issues one user may report per day. Anonymous
// requests pass through so the store can reject them. A request the handler
// rejects with a 4xx does not use up quota.
func IssueRateLimiter(client *redis.Client, queuePrefix string, limit int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		// Create individual key for each user
		userKey := queuePrefix + ":" + identity.ID

		count, err := client.Incr(ctx, userKey).Result()
		if err != nil {
			log.Error("redis error incrementing issue count", zap.String("user_id", identity.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
			c.Abort()
			return
		}

		// Set TTL only for the first increment
		if count == 1 {
			if err := client.Expire(ctx, userKey, issueLimitWindow).Err(); err != nil {
				log.Error("redis error setting issue limit TTL", zap.String("user_id", identity.ID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := client.TTL(ctx, userKey).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= 400 && status < 500 {
			if err := client.Decr(ctx, userKey).Err(); err != nil {
				log.Warn("redis error refunding issue count", zap.String("user_id", identity.ID), zap.Error(err))
			}
		}
	}
}
