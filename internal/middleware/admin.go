package middleware

import (
	"crypto/subtle"
	"net/http"

	"medicore/config"
	"medicore/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired checks the ADMIN role and, when a shared secret is
// configured, the X-Admin-Secret header on top of the bearer token.
func AdminRequired(cfg *config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access required"})
			return
		}
		if cfg.SharedSecret != "" {
			got := c.GetHeader("X-Admin-Secret")
			if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.SharedSecret)) != 1 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid admin secret"})
				return
			}
		}
		c.Next()
	}
}
