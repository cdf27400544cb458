package middleware

import (
	"strings"

	"vidtube-go/internal/api/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID = "currentUserID"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Authenticator 校验访问令牌并返回用户 ID
type Authenticator interface {
	Authenticate(accessToken string) (int64, error)
}

// AuthRequired JWT 认证中间件，要求请求必须携带有效 Token
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "缺少认证令牌")
			c.Abort()
			return
		}

		userID, err := auth.Authenticate(token)
		if err != nil {
			response.Unauthorized(c, "无效或过期的认证令牌")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// OptionalAuth 令牌有效时设置当前用户，缺失或无效时按未登录处理
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if userID, err := auth.Authenticate(token); err == nil {
				c.Set(ContextKeyUserID, userID)
			}
		}
		c.Next()
	}
}

// GetCurrentUserID 从 Gin Context 中获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := val.(int64)
	return userID, ok
}

// extractToken 优先读取 accessToken Cookie，其次是 Authorization 头中的 Bearer Token
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
