package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/steps"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EDUGEN_CONFIG", "EDUGEN_VOICE", "EDUGEN_OUTPUT_DIR", "EDUGEN_UNIT_CONCURRENCY",
		"EDUGEN_UNIT_TIMEOUT_SECONDS", "PORT", "DATABASE_URL", "GCS_ARTIFACT_BUCKET",
		"OBJECT_STORAGE_MODE", "STORAGE_EMULATOR_HOST", "REDIS_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Voice != "nova" || cfg.FrameWidth != 1920 || cfg.FrameHeight != 1080 || cfg.VideoFPS != 24 {
		t.Fatalf("defaults: got=%+v", cfg)
	}
	if cfg.UnitConcurrency != 1 || cfg.Port != "8080" {
		t.Fatalf("defaults: concurrency=%d port=%q", cfg.UnitConcurrency, cfg.Port)
	}
	if d := driverName(cfg.DB); d != "sqlite" {
		t.Fatalf("driver: want=sqlite got=%s", d)
	}
	if cfg.Mirror.Enabled() {
		t.Fatalf("mirror should be disabled without a bucket")
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "edugen.yaml")
	body := strings.Join([]string{
		"voice: echo",
		"output_dir: /tmp/lessons",
		"unit_concurrency: 3",
		"unit_timeout: 45s",
		"port: \"9000\"",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("EDUGEN_CONFIG", path)
	t.Setenv("EDUGEN_VOICE", "Shimmer")
	t.Setenv("PORT", "9100")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Voice != "shimmer" {
		t.Fatalf("env should override file voice: got=%q", cfg.Voice)
	}
	if cfg.OutputDir != "/tmp/lessons" || cfg.UnitConcurrency != 3 || cfg.UnitTimeout != 45*time.Second {
		t.Fatalf("file values: got=%+v", cfg)
	}
	if cfg.Port != "9100" {
		t.Fatalf("port: want=9100 got=%q", cfg.Port)
	}
}

func TestLoadConfigRejectsUnknownVoice(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDUGEN_VOICE", "robot")
	_, err := LoadConfig()
	if !errors.Is(err, steps.ErrUnknownVoice) {
		t.Fatalf("want ErrUnknownVoice, got %v", err)
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDUGEN_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("want error for missing config file")
	}
}

func TestWritePreview(t *testing.T) {
	doc := &lesson.Document{
		Intro:       &lesson.NarrationSection{Title: "Taking Away", Narration: strings.Repeat("a", 120)},
		Explanation: &lesson.NarrationSection{Narration: "Count back four."},
		PracticeMCQ: &lesson.PracticeMCQ{Question: "What is 10 minus 4?", Options: []string{"5", "6", "7"}, CorrectAnswer: 1},
		Summary:     &lesson.NarrationSection{Narration: "Great job."},
		Metadata:    lesson.Metadata{Topic: "10 minus 4", Language: "en-US", DurationEstimate: 6.3},
	}
	var sb strings.Builder
	WritePreview(&sb, doc)
	out := sb.String()
	for _, want := range []string{
		"Topic: 10 minus 4",
		"Duration: 6.3s",
		"Title: Taking Away",
		"Narration: " + strings.Repeat("a", 100) + "...",
		"Options: 3 choices",
		"Correct Answer: Option 2",
		"Summary:\n  Narration: Great job.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("preview missing %q:\n%s", want, out)
		}
	}
}
