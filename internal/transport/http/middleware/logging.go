package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ContextRequestIDKey = "request_id"
	RequestIDHeader     = "X-Request-ID"
)

// RequestLogger tags every request with an id, echoed in X-Request-ID, and
// logs one line per request once the handler chain has finished.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.NewString()
		start := time.Now()

		c.Set(ContextRequestIDKey, reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		log.Infow("request",
			"request_id", reqID,
			"method", c.Request.Method,
			"uri", c.Request.RequestURI,
			"status", c.Writer.Status(),
			"response_size", c.Writer.Size(),
			"duration", time.Since(start),
		)
	}
}
