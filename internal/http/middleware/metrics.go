package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edugen-backend/internal/observability"
)

// Metrics instruments HTTP request counts and latency when metrics are enabled.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveAPI(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
