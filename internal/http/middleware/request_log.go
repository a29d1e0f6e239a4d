package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edugen-backend/internal/pkg/ctxutil"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// RequestLogger writes one line per request after the handler ran. Script
// routes also carry the script id.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		ctx := c.Request.Context()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, "script_id", id)
		}
		if td := ctxutil.GetTraceData(ctx); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if uid := ctxutil.UserID(ctx); uid != uuid.Nil {
			fields = append(fields, "user_id", uid.String())
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
