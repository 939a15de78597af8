package middleware

import (
	"net/http"
	"time"

	"crudboard/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per route template. Unmatched
// routes are reported as "unknown" to keep label cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		status := c.Writer.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RecordHTTPRequest(c.Request.Method, endpoint, status, time.Since(start))
	}
}
