package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/edugen-backend/internal/http/handlers"
	"github.com/yungbote/edugen-backend/internal/observability"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

func TestRouterHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Log:           logger.Nop(),
		Metrics:       observability.NewMetrics(),
		HealthHandler: httpH.NewHealthHandler(),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: want=200 got=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "edugen_api_requests_total") {
		t.Fatalf("metrics: %d\n%s", rec.Code, rec.Body.String())
	}
}

func TestRouterSkipsNilGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{Log: logger.Nop()})
	for _, path := range []string{"/healthcheck", "/metrics", "/api/scripts"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: want=404 got=%d", path, rec.Code)
		}
	}
}
