package api

import (
	"net/http"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func simpleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": utils.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

func health(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := config.RunHealthCheck(c.Request.Context())
		if report.Status == config.HealthDisabled {
			c.JSON(http.StatusServiceUnavailable, report)
			return
		}
		if !report.Healthy() {
			logger.WithFields(logrus.Fields{
				"status": report.Status,
				"checks": report.Checks,
			}).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, report)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
