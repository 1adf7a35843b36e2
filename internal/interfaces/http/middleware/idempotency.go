package middleware

import (
	"net/http"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/logger"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader names the client supplied deduplication key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// Idempotency rejects a request whose Idempotency-Key was already seen on
// the same route within ttl. Requests without the header pass through. A
// key is consumed by its first request whatever that request's outcome.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		requestID := c.GetString("request_id")
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", requestID))
			return
		}

		scoped := shared.RequestKey(c.Request.Method, c.FullPath(), c.Request.URL.Path, key)
		fresh, err := store.MarkProcessed(c.Request.Context(), scoped, ttl)
		if err != nil {
			logger.GetGinLogger(c).Error("idempotency store failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
				dto.ErrCodeUnavailable, "cannot check Idempotency-Key", requestID))
			return
		}
		if !fresh {
			logger.GetGinLogger(c).Warn("duplicate request rejected", zap.String("idempotency_key", key))
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeDuplicateRequest, "a request with this Idempotency-Key was already processed", requestID))
			return
		}
		c.Next()
	}
}
