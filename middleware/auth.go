package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"labsched/utils"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's
// identity and role on the request context. The role is policy input for the
// commit step (approved vs pending bookings), not an access filter here.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		subject, role := utils.TokenClaims(token)
		if subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has no subject"})
			return
		}
		c.Set("userID", subject)
		c.Set("role", role)
		c.Next()
	}
}
