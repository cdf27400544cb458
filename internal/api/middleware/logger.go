package middleware

import (
	"time"

	"vidtube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger Gin日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Duration("duration", time.Since(start)),
			zap.Int("body_size", c.Writer.Size()),
		}
		if userID, ok := GetCurrentUserID(c); ok {
			fields = append(fields, zap.Int64("user_id", userID))
		}
		logger.Info("HTTP Request", fields...)

		for _, e := range c.Errors {
			logger.Error("Request Error",
				zap.String("request_id", GetRequestID(c)),
				zap.String("error", e.Error()),
				zap.Any("type", e.Type),
			)
		}
	}
}
