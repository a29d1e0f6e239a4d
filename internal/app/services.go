package app

import (
	"context"
	"fmt"

	"github.com/yungbote/edugen-backend/internal/modules/lesson/pipeline"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
	"github.com/yungbote/edugen-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Scripts  services.ScriptService
	Lessons  services.LessonService
	Pipeline *pipeline.Pipeline
}

func wireServices(ctx context.Context, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, repos.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}
	scripts := services.NewScriptService(log, repos.Script)

	p, _, err := wirePipeline(ctx, log, cfg, clients, scripts)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth:     auth,
		Scripts:  scripts,
		Lessons:  services.NewLessonService(log, p),
		Pipeline: p,
	}, nil
}
