package steps

import (
	"context"
	"path/filepath"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// FrameRenderer draws text onto a still image at path.
type FrameRenderer interface {
	RenderPNG(ctx context.Context, text string, path string) error
}

type FrameStage struct {
	log      *logger.Logger
	renderer FrameRenderer
	opts     StageOptions
}

func NewFrameStage(log *logger.Logger, renderer FrameRenderer, opts StageOptions) *FrameStage {
	return &FrameStage{log: log.With("stage", "RenderingFrames"), renderer: renderer, opts: opts}
}

// RenderAll writes "{scriptID}_{key}.png" for every unit with non-blank text.
func (s *FrameStage) RenderAll(ctx context.Context, doc *lesson.Document, outputDir string, scriptID string) ([]lesson.Artifact, error) {
	if err := ensureDir(outputDir); err != nil {
		return nil, err
	}
	arts := runUnits(ctx, s.log, textUnits(doc), s.opts, func(ctx context.Context, u lesson.Unit) (string, error) {
		text, _ := doc.Text(u)
		name := lesson.ArtifactName(scriptID, u.Key(), ".png")
		if err := s.renderer.RenderPNG(ctx, text, filepath.Join(outputDir, name)); err != nil {
			return "", err
		}
		return name, nil
	})
	s.log.Info("Frame stage finished", "script_id", scriptID, "files", len(arts))
	return arts, nil
}
