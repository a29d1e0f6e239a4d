package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5000",
	"http://127.0.0.1:5173",
}

// CORS allows the local dev origins plus any comma separated extras.
func CORS(extraOrigins string) gin.HandlerFunc {
	origins := append([]string{}, defaultOrigins...)
	for _, o := range strings.Split(extraOrigins, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "X-Trace-Id"},
		AllowCredentials: true,
	})
}
