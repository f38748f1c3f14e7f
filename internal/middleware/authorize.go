package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"modelreviews/internal/models"
)

// RequireRoles admits only users holding one of roles. Denials are attached
// to the context so the request log names the user's role.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	allowed := make([]string, 0, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
		allowed = append(allowed, string(role))
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			_ = c.Error(fmt.Errorf("role %q not permitted on %s", user.Role, c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":         "forbidden",
				"requiredRoles": allowed,
			})
			return
		}

		c.Next()
	}
}
