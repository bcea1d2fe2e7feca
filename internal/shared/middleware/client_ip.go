package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"mebelshop-backend/internal/shared/utils"
)

// ClientIPMiddleware resolves the real client IP behind proxies and injects
// it into both the gin context and the request context. Registered early so
// the webhook handler can log where a notification came from.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set("client_ip", clientIP)

		ctx := context.WithValue(c.Request.Context(), clientIPKey{}, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

type clientIPKey struct{}

// GetClientIPFromContext retrieves the client IP from a request context,
// empty string if not set.
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}
