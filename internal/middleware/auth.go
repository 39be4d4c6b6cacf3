package middleware

import (
	"net/http"
	"strings"

	"earnrewardzz/config"
	"earnrewardzz/internal/auth"
	"earnrewardzz/internal/domain"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer session token and sets UserID and Email
// in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthenticated(c, "missing authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthenticated(c, "invalid authorization format")
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			abortUnauthenticated(c, "invalid or expired token")
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": msg,
		"kind":  string(domain.KindUnauthenticated),
	})
}

// AdminRequired gates operational endpoints behind the shared admin key.
func AdminRequired(cfg *config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APIKey == "" || c.GetHeader("X-Admin-Key") != cfg.APIKey {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin access required",
				"kind":  string(domain.KindForbidden),
			})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user ID from context (must be used after AuthRequired).
func GetUserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}

// GetEmail returns the authenticated email from context.
func GetEmail(c *gin.Context) string {
	v, _ := c.Get("email")
	if v == nil {
		return ""
	}
	return v.(string)
}
