package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/yungbote/edugen-backend/internal/platform/localmedia"
)

const wellFormedDraft = `{
  "intro": {"title": "Taking Away", "narration": "Today we learn to subtract numbers."},
  "explanation": {"title": "Counting Back", "narration": "Start at ten and count back four steps."},
  "practice_mcq": {
    "question": "What is 10 minus 4?",
    "options": ["5", "6", "7", "8"],
    "correct_answer": 1,
    "explanation": "Ten take away four leaves six."
  },
  "summary": {"narration": "Subtraction means taking away. Great work!"},
  "metadata": {"language": "fr-FR", "tone": "college"}
}`

type stubDrafter struct {
	raw    string
	err    error
	system string
	user   string
}

func (s *stubDrafter) GenerateJSONObject(ctx context.Context, system string, user string) (string, error) {
	s.system, s.user = system, user
	return s.raw, s.err
}

type stubSynth struct {
	mu      sync.Mutex
	failOn  map[string]bool
	blockOn map[string]bool
	calls   []string
}

func (s *stubSynth) Speech(ctx context.Context, text string, voice string) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	s.mu.Unlock()
	if s.failOn[text] {
		return nil, errors.New("synthesis quota exceeded")
	}
	if s.blockOn[text] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []byte("ID3" + voice + ":" + text), nil
}

type stubFrames struct {
	failOn  map[string]bool
	blockOn map[string]bool
}

func (s *stubFrames) RenderPNG(ctx context.Context, text string, path string) error {
	if s.failOn[text] {
		return errors.New("font missing glyph")
	}
	if s.blockOn[text] {
		<-ctx.Done()
		return ctx.Err()
	}
	return os.WriteFile(path, []byte("PNG"+text), 0o644)
}

type stubAssembler struct {
	available bool
	mu        sync.Mutex
	calls     []string
}

func (s *stubAssembler) IsAvailable(ctx context.Context) bool { return s.available }

func (s *stubAssembler) AssembleStill(ctx context.Context, framePath, audioPath, outPath string, opts localmedia.StillOptions) error {
	s.mu.Lock()
	s.calls = append(s.calls, outPath)
	s.mu.Unlock()
	if !strings.HasSuffix(framePath, ".png") || !strings.HasSuffix(audioPath, ".mp3") {
		return fmt.Errorf("unexpected inputs %s %s", framePath, audioPath)
	}
	return os.WriteFile(outPath, []byte("MP4"), 0o644)
}
