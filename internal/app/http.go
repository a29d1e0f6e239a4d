package app

import (
	"github.com/yungbote/edugen-backend/internal/http"
	httpH "github.com/yungbote/edugen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/edugen-backend/internal/http/middleware"
	"github.com/yungbote/edugen-backend/internal/observability"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Auth   *httpH.AuthHandler
	User   *httpH.UserHandler
	Script *httpH.ScriptHandler
	Media  *httpH.MediaHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Auth:   httpH.NewAuthHandler(services.Auth),
		User:   httpH.NewUserHandler(services.Auth),
		Script: httpH.NewScriptHandler(services.Lessons, services.Scripts),
		Media:  httpH.NewMediaHandler(services.Pipeline.OutputDir()),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, services.Auth)}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		Metrics:        observability.Current(),
		CORSOrigins:    cfg.CORSOrigins,
		ServiceName:    cfg.ServiceName,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		UserHandler:    handlers.User,
		ScriptHandler:  handlers.Script,
		MediaHandler:   handlers.Media,
	})
}
