package middleware

import (
	"net/http"
	"strings"

	"go-pos-terminal/internal/auth"
	"go-pos-terminal/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the Bearer token and binds the cashier identity to
// the request context. Handlers read it back with CurrentIdentity.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("identity", models.CashierIdentity{
			ID:       claims.CashierID,
			Username: claims.Username,
			Role:     claims.Role,
		})

		c.Next()
	}
}

// CurrentIdentity returns the identity AuthMiddleware stored for this request.
func CurrentIdentity(c *gin.Context) models.CashierIdentity {
	return c.MustGet("identity").(models.CashierIdentity)
}

// RequireRole is a secondary guard that checks for specific permissions.
func RequireRole(allowedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get("identity")
		if !exists || val.(models.CashierIdentity).Role != allowedRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}
