package middleware

import (
	"net/http"
	"strings"

	"servana/models"
	"servana/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// CustomerAuthMiddleware authenticates the bearer token and stores the
// resulting principal on the request context. Every downstream call takes
// the principal explicitly from here.
func CustomerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		principal, err := utils.PrincipalFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal set by
// CustomerAuthMiddleware.
func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	val, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := val.(models.Principal)
	return principal, ok
}
