package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace/client/internal/sandbox/service"
	"marketplace/client/internal/security"
)

const actorKey = "actor"

// Auth requires a valid bearer JWT signed with secret.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Full authentication is required"})
			return
		}

		claims, err := security.ParseAccessToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(actorKey, service.Actor{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// CurrentActor returns the caller stored by Auth.
func CurrentActor(c *gin.Context) (service.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return service.Actor{}, false
	}
	actor, ok := v.(service.Actor)
	return actor, ok
}
