package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID       = "X-Request-ID"
	ContextKeyRequestID   = "requestID"
	maxRequestIDLength  = 128
)

// RequestID 沿用调用方传入的请求 ID，没有则生成一个，并写回响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID 当前请求 ID，未经过 RequestID 中间件时为空
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
