package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/edugen-backend/internal/data/db"
	"github.com/yungbote/edugen-backend/internal/http"
	"github.com/yungbote/edugen-backend/internal/observability"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
	"github.com/yungbote/edugen-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	cfg.LogSummary(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
	if observability.Enabled() {
		observability.Init()
	}

	dbService, err := db.NewService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(dbService.DB(), log)
	serviceset, err := wireServices(ctx, log, cfg, reposet, clients)
	if err != nil {
		clients.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           dbService.DB(),
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Start forwards pipeline progress events into the log until Close.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if a.Clients.Bus != nil {
		progressLog := a.Log.With("component", "PipelineProgress")
		err := a.Clients.Bus.StartForwarder(ctx, func(ev bus.Event) {
			progressLog.Debug("Pipeline transition", "run_id", ev.RunID, "state", ev.State, "detail", ev.Detail)
		})
		if err != nil {
			a.Log.Warn("Progress forwarder failed to start", "error", err)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(ctx, addr, a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
