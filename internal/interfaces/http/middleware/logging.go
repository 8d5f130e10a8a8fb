package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// RequestID attaches a correlation ID to every request and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = common.NewRequestID()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logging logs each request and records HTTP metrics.
func Logging(log logging.Logger, metrics *prometheus.AppMetrics) gin.HandlerFunc {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(elapsed.Seconds())

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("elapsed", elapsed),
			logging.String("request_id", c.GetString("request_id")),
		}
		if status >= 500 {
			log.Error("request failed", fields...)
		} else {
			log.Info("request handled", fields...)
		}
	}
}
