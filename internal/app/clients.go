package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/edugen-backend/internal/modules/lesson/pipeline"
	"github.com/yungbote/edugen-backend/internal/platform/gcp"
	"github.com/yungbote/edugen-backend/internal/platform/localmedia"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
	"github.com/yungbote/edugen-backend/internal/platform/openai"
	"github.com/yungbote/edugen-backend/internal/platform/textframe"
	"github.com/yungbote/edugen-backend/internal/realtime/bus"
)

type Clients struct {
	OpenAI   openai.Client
	Frames   *textframe.Renderer
	Media    localmedia.Tools
	Bus      bus.Bus
	Mirror   gcp.ArtifactMirror
	closeFns []func() error
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	// Openai
	ai, err := openai.NewClient(log, cfg.OpenAI)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	c.OpenAI = ai

	// Frames
	frameOpts := textframe.DefaultOptions()
	frameOpts.Width = cfg.FrameWidth
	frameOpts.Height = cfg.FrameHeight
	frameOpts.FontSize = cfg.FontSize
	frameOpts.FontPath = cfg.FontPath
	frameOpts.BackgroundPath = cfg.BackgroundImage
	renderer, err := textframe.New(frameOpts)
	if err != nil {
		return Clients{}, fmt.Errorf("init frame renderer: %w", err)
	}
	c.Frames = renderer

	// Video
	c.Media = localmedia.New(log, localmedia.Config{FPS: cfg.VideoFPS, Timeout: cfg.VideoTimeout})

	// Redis
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		b, err := bus.NewRedisBus(log, bus.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis bus: %w", err)
		}
		c.Bus = b
	} else {
		c.Bus = bus.NewMemoryBus()
	}
	c.closeFns = append(c.closeFns, c.Bus.Close)

	// Gcs
	if cfg.Mirror.Enabled() {
		m, err := gcp.NewArtifactMirror(ctx, log, cfg.Mirror)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init artifact mirror: %w", err)
		}
		c.Mirror = m
		c.closeFns = append(c.closeFns, m.Close)
	}
	return c, nil
}

func (c Clients) Close() {
	for i := len(c.closeFns) - 1; i >= 0; i-- {
		_ = c.closeFns[i]()
	}
}

// pipelineMirror adapts an optional mirror to the pipeline's interface so a
// nil mirror stays a nil interface.
func pipelineMirror(m gcp.ArtifactMirror) pipeline.Mirror {
	if m == nil {
		return nil
	}
	return m
}
