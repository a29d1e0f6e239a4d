package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yungbote/edugen-backend/internal/modules/lesson/content/schema"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/pipeline"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/prompts"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/steps"
	"github.com/yungbote/edugen-backend/internal/observability"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// wirePipeline builds the lesson coordinator over store. Both the API server
// and the command line runner go through here.
func wirePipeline(ctx context.Context, log *logger.Logger, cfg Config, clients Clients, store pipeline.Store) (*pipeline.Pipeline, *schema.Validator, error) {
	log.Info("Wiring lesson pipeline...")

	template := prompts.MathTemplate()
	if cfg.TemplatePath != "" {
		t, err := prompts.LoadTemplate(cfg.TemplatePath)
		if err != nil {
			return nil, nil, fmt.Errorf("load prompt template: %w", err)
		}
		template = t
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, nil, fmt.Errorf("load script schema: %w", err)
	}

	stageOpts := steps.StageOptions{UnitTimeout: cfg.UnitTimeout, Concurrency: cfg.UnitConcurrency}
	audio, err := steps.NewAudioStage(log, clients.OpenAI, cfg.Voice, stageOpts)
	if err != nil {
		return nil, nil, err
	}

	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve output dir: %w", err)
	}

	p, err := pipeline.New(ctx, pipeline.Deps{
		Log:       log,
		Drafter:   steps.NewDraftBuilder(log, clients.OpenAI, cfg.DraftTimeout),
		Validator: validator,
		Audio:     audio,
		Frames:    steps.NewFrameStage(log, clients.Frames, stageOpts),
		Video:     steps.NewVideoStage(log, clients.Media, cfg.VideoFPS, stageOpts),
		Store:     store,
		Bus:       clients.Bus,
		Mirror:    pipelineMirror(clients.Mirror),
		Tracer:    observability.Tracer(),
		Metrics:   observability.Current(),
	}, pipeline.Options{
		OutputDir:      outputDir,
		Template:       template,
		PersistTimeout: cfg.PersistTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init pipeline: %w", err)
	}
	return p, validator, nil
}
