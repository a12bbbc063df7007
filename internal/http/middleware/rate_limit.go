package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

// KeyFunc выбирает ключ, по которому считаются запросы.
type KeyFunc func(c *gin.Context) string

// ByClientIP считает запросы по IP клиента.
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByFirm считает запросы по фирме из токена, без токена по IP.
func ByFirm(c *gin.Context) string {
	if v, ok := c.Get(ContextFirmIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return "firm:" + id.String()
		}
	}
	return c.ClientIP()
}

// RateLimitMiddleware ограничивает количество запросов: limit за period на ключ.
func RateLimitMiddleware(limit int64, period time.Duration, key KeyFunc) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}
	if key == nil {
		key = ByClientIP
	}

	instance := limiter.New(memory.NewStore(), limiter.Rate{Period: period, Limit: limit})

	return func(c *gin.Context) {
		lctx, err := instance.Get(c, key(c))
		if err != nil {
			response.Error(c, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось проверить лимит запросов"))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
				Success: false,
				Error: &response.ErrorInfo{
					Code:    "RATE_LIMITED",
					Message: "слишком много запросов, попробуйте позже",
				},
			})
			return
		}

		c.Next()
	}
}
