package middlewares

import (
	"net/http"

	"github.com/fincontrol/finance_backend/models"
	"github.com/gin-gonic/gin"
)

func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"message": "Esta ação não é autorizada.",
	})
}

// RequirePermission must run after AuthMiddleware.
func RequirePermission(resource models.Resource, action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthenticated(c)
			return
		}
		if !models.Can(user.Role, resource, action) {
			Forbidden(c)
			return
		}
		c.Next()
	}
}
