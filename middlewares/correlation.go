package middlewares

import (
	"net/http"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CorrelationHeader = "x-correlation-id"

// CorrelationId attaches the caller's correlation id, or a fresh one, to the request context.
func CorrelationId() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(CorrelationHeader)
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Header(CorrelationHeader, cid)
		c.Next()
	}
}

// Readiness answers 503 until the database is connected.
// Probe paths are always let through.
func Readiness(probePaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range probePaths {
			if c.Request.URL.Path == p {
				c.Next()
				return
			}
		}
		if config.GetDB() == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "Serviço indisponível.",
			})
			return
		}
		c.Next()
	}
}
