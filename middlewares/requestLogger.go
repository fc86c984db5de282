package middlewares

import (
	"fmt"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const ExecutionTimeHeader = "X-Execution-Time"

// CustomErrorLogger logs only requests that recorded errors.
func CustomErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			fields := logrus.Fields{
				"method": c.Request.Method,
				"url":    c.Request.URL.String(),
				"status": c.Writer.Status(),
			}
			if cid, ok := utils.GetCorrelationIdFromContext(c.Request.Context()); ok {
				fields["correlation_id"] = cid
			}
			if name, ok := utils.GetUserNameFromContext(c.Request.Context()); ok {
				fields["user"] = name
			}
			logger.WithFields(fields).Error(c.Errors.String())
		}
	}
}

// timedWriter stamps the elapsed time on the response right before the body is written.
type timedWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *timedWriter) stamp() {
	if w.stamped || w.ResponseWriter.Written() {
		return
	}
	w.stamped = true
	w.Header().Set(ExecutionTimeHeader, formatMs(time.Since(w.start)))
}

func (w *timedWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *timedWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *timedWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

func formatMs(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
}

// MonitorPerformance warns about requests slower than threshold and, in debug,
// reports the execution time in a response header.
func MonitorPerformance(logger *logrus.Logger, threshold time.Duration, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		if debug {
			c.Writer = &timedWriter{ResponseWriter: c.Writer, start: start}
		}

		c.Next()

		elapsed := time.Since(start)
		if elapsed > threshold {
			logger.WithFields(logrus.Fields{
				"url":               c.Request.URL.String(),
				"method":            c.Request.Method,
				"execution_time_ms": float64(elapsed.Microseconds()) / 1000,
				"ip":                c.ClientIP(),
				"user_agent":        c.Request.UserAgent(),
			}).Warn("Slow request detected")
		}
	}
}

// RequestMonitor reads its settings from config.
func RequestMonitor(logger *logrus.Logger) gin.HandlerFunc {
	threshold := time.Duration(config.SlowRequestThresholdMs()) * time.Millisecond
	return MonitorPerformance(logger, threshold, config.Debug())
}
