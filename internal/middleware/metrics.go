package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockrit/stockrit/internal/metrics"
)

// Metrics records request counts and latencies per route. Unmatched
// paths share one label so probes cannot blow up the cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
