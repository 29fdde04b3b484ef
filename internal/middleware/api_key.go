package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerly/internal/logger"
)

// APIKeyAuth guards write routes with the X-API-Key header. An empty apiKey
// leaves the routes open, which is how a single-user local install runs.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	if apiKey == "" {
		logger.Named("auth").Warn("API_KEY is not set, write routes are unauthenticated")
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "INVALID_API_KEY", "message": "Invalid or missing API key"}})
			return
		}
		c.Next()
	}
}
