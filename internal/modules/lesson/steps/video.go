package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/platform/localmedia"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// VideoAssembler muxes a still frame with a narration clip.
type VideoAssembler interface {
	IsAvailable(ctx context.Context) bool
	AssembleStill(ctx context.Context, framePath string, audioPath string, outPath string, opts localmedia.StillOptions) error
}

type VideoStage struct {
	log       *logger.Logger
	assembler VideoAssembler
	fps       int
	opts      StageOptions
}

func NewVideoStage(log *logger.Logger, assembler VideoAssembler, fps int, opts StageOptions) *VideoStage {
	if fps <= 0 {
		fps = 24
	}
	return &VideoStage{log: log.With("stage", "AssemblingVideo"), assembler: assembler, fps: fps, opts: opts}
}

// Available probes the underlying tools.
func (s *VideoStage) Available(ctx context.Context) bool {
	return s.assembler != nil && s.assembler.IsAvailable(ctx)
}

// AssembleAll writes "{scriptID}_{key}.mp4" for each unit whose section is
// present and whose audio clip and frame both exist on disk. Units missing
// either input are skipped with a warning.
func (s *VideoStage) AssembleAll(ctx context.Context, doc *lesson.Document, audioDir, framesDir, outputDir, scriptID string) ([]lesson.Artifact, error) {
	if err := ensureDir(outputDir); err != nil {
		return nil, err
	}
	var candidates []lesson.Unit
	for _, u := range lesson.Units() {
		if doc.HasSection(u.Section) {
			candidates = append(candidates, u)
		}
	}
	arts := runUnits(ctx, s.log, candidates, s.opts, func(ctx context.Context, u lesson.Unit) (string, error) {
		audioPath := filepath.Join(audioDir, lesson.ArtifactName(scriptID, u.Key(), AudioExt))
		framePath := filepath.Join(framesDir, lesson.ArtifactName(scriptID, u.Key(), ".png"))
		if missing := firstMissing(audioPath, framePath); missing != "" {
			s.log.Warn("Skipping video; input missing", "unit", string(u.Key()), "missing", missing)
			return "", nil
		}
		name := lesson.ArtifactName(scriptID, u.Key(), ".mp4")
		if err := s.assembler.AssembleStill(ctx, framePath, audioPath, filepath.Join(outputDir, name), localmedia.StillOptions{FPS: s.fps}); err != nil {
			return "", fmt.Errorf("assemble video: %w", err)
		}
		return name, nil
	})
	s.log.Info("Video stage finished", "script_id", scriptID, "files", len(arts))
	return arts, nil
}

func firstMissing(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return p
		}
	}
	return ""
}
