package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ledgerly/internal/logger"
	"ledgerly/internal/uuid"
)

const (
	requestIDKey     = "requestID"
	requestLoggerKey = "requestLogger"
	requestIDHeader  = "X-Request-ID"
)

// RequestLogger returns the logger bound to the current request, or the
// global logger outside RequestLogging.
func RequestLogger(c *gin.Context) *zap.SugaredLogger {
	if v, ok := c.Get(requestLoggerKey); ok {
		if l, ok := v.(*zap.SugaredLogger); ok {
			return l
		}
	}
	return logger.Get()
}

// RequestLogging tags each request with an ID, reusing a well-formed inbound
// X-Request-ID, and logs one line per request. Client errors log at warn
// level and server errors at error level.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if !uuid.IsValid(requestID) {
			requestID = uuid.New()
		}
		c.Set(requestIDKey, requestID)
		c.Set(requestLoggerKey, logger.Get().With("request_id", requestID))
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		log := RequestLogger(c)
		switch {
		case status >= 500:
			log.Errorw("request", fields...)
		case status >= 400:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}
