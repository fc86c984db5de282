package middlewares

import (
	"net/http"
	"strings"

	"github.com/fincontrol/finance_backend/models"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "Não autenticado.",
	})
}

// AuthMiddleware requires a valid bearer token whose user still exists.
// The user is read through the redis cache so role changes apply on the next request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		bearer := "Bearer "
		if len(auth) <= len(bearer) || !strings.EqualFold(auth[:len(bearer)], bearer) {
			unauthenticated(c)
			return
		}
		token := strings.TrimSpace(auth[len(bearer):])

		claims, err := utils.ParseClaims(token)
		if err != nil {
			unauthenticated(c)
			return
		}
		user, err := models.GetCachedUser(c.Request.Context(), claims.ID)
		if err != nil {
			unauthenticated(c)
			return
		}

		ctx := utils.SetUserIdInContext(c.Request.Context(), user.ID)
		ctx = utils.SetUserNameInContext(ctx, user.Name)
		ctx = utils.SetUserRoleInContext(ctx, string(user.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
