package middleware

import (
	"net/http"
	"strings"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const actorContextKey = "actor"

// AuthMiddleware validates the bearer token and stores the Actor in the Gin
// context for downstream handlers.
func AuthMiddleware(tokens services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if tokenStr == "" || tokenStr == header {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenStr, "access")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if !models.Role(role).Valid() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(actorContextKey, services.Actor{ID: userID, Role: models.Role(role)})
		c.Next()
	}
}

// RequireRoles rejects requests whose actor holds none of the given roles.
// Runs after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if !actor.Is(roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetActor extracts the authenticated actor from the Gin context.
func GetActor(c *gin.Context) (services.Actor, bool) {
	val, exists := c.Get(actorContextKey)
	if !exists {
		return services.Actor{}, false
	}
	actor, ok := val.(services.Actor)
	return actor, ok
}
