package middleware

import (
	"time"

	"github.com/duccv/go-product-catalog/internal/constant"
	"github.com/duccv/go-product-catalog/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoggingMiddleware provides request logging functionality
type LoggingMiddleware struct {
	config *MiddlewareConfig
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(config *MiddlewareConfig) *LoggingMiddleware {
	if config == nil {
		config = DefaultMiddlewareConfig()
	}
	return &LoggingMiddleware{
		config: config,
	}
}

// RequestIDMiddleware adds request ID to all requests
func (l *LoggingMiddleware) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constant.HeaderRequestID)
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(constant.CtxRequestID, requestID)
		c.Header(constant.HeaderRequestID, requestID)

		c.Next()
	}
}

// RequestLogger logs one line per finished request.
func (l *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.config.LoggingEnabled {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		duration := time.Since(start)
		log := l.createRequestLogger(c)

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
		}
		if l.config.LogResponseTime {
			fields = append(fields, zap.Duration("duration", duration))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}
		log.Info("Request completed", fields...)

		// Log slow requests
		if l.config.SlowRequestThreshold > 0 && duration > l.config.SlowRequestThreshold {
			log.Warn("Slow request detected", zap.Duration("duration", duration))
		}
	}
}

// createRequestLogger creates a logger with request context
func (l *LoggingMiddleware) createRequestLogger(c *gin.Context) *zap.Logger {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}
	if requestID := c.GetString(constant.CtxRequestID); requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}

	if l.config.LogIPAddress {
		fields = append(fields, zap.String("ip", getClientIP(c)))
	}

	if l.config.LogUserAgent {
		fields = append(fields, zap.String("userAgent", c.GetHeader("User-Agent")))
	}

	// Add user context if available
	if userID, exists := c.Get(constant.CtxUserID); exists {
		if id, ok := userID.(int64); ok {
			fields = append(fields, zap.Int64("userId", id))
		}
	}

	return logger.FromContext(c.Request.Context()).With(fields...)
}

// ErrorLogger provides error logging middleware
func (l *LoggingMiddleware) ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		log := logger.FromContext(c.Request.Context()).With(
			zap.String("requestId", c.GetString(constant.CtxRequestID)))

		for _, err := range c.Errors {
			log.Error("Request error",
				zap.String("error", err.Error()),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
		}
	}
}

func generateRequestID() string {
	return uuid.NewString()
}
