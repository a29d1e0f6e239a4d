package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/edugen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/edugen-backend/internal/http/middleware"
	"github.com/yungbote/edugen-backend/internal/observability"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    string
	ServiceName    string
	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler
	ScriptHandler  *httpH.ScriptHandler
	MediaHandler   *httpH.MediaHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Scripts
		if cfg.ScriptHandler != nil {
			protected.POST("/scripts", cfg.ScriptHandler.Generate)
			protected.GET("/scripts", cfg.ScriptHandler.List)
			protected.GET("/scripts/:id", cfg.ScriptHandler.Get)
			protected.DELETE("/scripts/:id", cfg.ScriptHandler.Delete)
		}

		// Media
		if cfg.MediaHandler != nil {
			protected.GET("/media/:kind/:filename", cfg.MediaHandler.Get)
		}
	}

	return r
}
