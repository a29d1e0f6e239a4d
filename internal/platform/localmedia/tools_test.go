package localmedia

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

type call struct {
	name string
	args []string
}

func fakeRunner(calls *[]call, probeOut string) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{name: name, args: args})
		if name == "ffprobe" {
			return []byte(probeOut), nil
		}
		out := args[len(args)-1]
		return nil, os.WriteFile(out, []byte("mp4"), 0o644)
	}
}

func TestIsAvailableRequiresBothBinaries(t *testing.T) {
	found := map[string]bool{"ffmpeg": true}
	m := New(logger.Nop(), Config{LookPath: func(name string) (string, error) {
		if found[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}})
	if m.IsAvailable(context.Background()) {
		t.Fatalf("want unavailable without ffprobe")
	}
	found["ffprobe"] = true
	if !m.IsAvailable(context.Background()) {
		t.Fatalf("want available")
	}
}

func TestProbeDurationParsesSeconds(t *testing.T) {
	var calls []call
	m := New(logger.Nop(), Config{Runner: fakeRunner(&calls, "3.250000\n")})
	d, err := m.ProbeDuration(context.Background(), "a.mp3")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if d != 3250*time.Millisecond {
		t.Fatalf("duration: want=3.25s got=%s", d)
	}
}

func TestProbeDurationRejectsGarbage(t *testing.T) {
	var calls []call
	m := New(logger.Nop(), Config{Runner: fakeRunner(&calls, "N/A")})
	if _, err := m.ProbeDuration(context.Background(), "a.mp3"); err == nil {
		t.Fatalf("want error")
	}
}

func TestAssembleStillBuildsFFmpegArgs(t *testing.T) {
	var calls []call
	m := New(logger.Nop(), Config{Runner: fakeRunner(&calls, "2.5")})
	out := filepath.Join(t.TempDir(), "videos", "s_intro_narration.mp4")
	if err := m.AssembleStill(context.Background(), "f.png", "a.mp3", out, StillOptions{}); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(calls) != 2 || calls[0].name != "ffprobe" || calls[1].name != "ffmpeg" {
		t.Fatalf("calls: got=%+v", calls)
	}
	joined := strings.Join(calls[1].args, " ")
	for _, want := range []string{"-loop 1", "-framerate 24", "-i f.png", "-i a.mp3", "-c:v libx264", "-c:a aac", "-pix_fmt yuv420p", "-t 2.500"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("ffmpeg args missing %q: %s", want, joined)
		}
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestAssembleStillCleansUpOnFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bad.mp4")
	m := New(logger.Nop(), Config{Runner: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		_ = os.WriteFile(out, []byte("partial"), 0o644)
		return []byte("encoder exploded"), errors.New("exit status 1")
	}})
	err := m.AssembleStill(context.Background(), "f.png", "a.mp3", out, StillOptions{Duration: time.Second})
	if err == nil || !strings.Contains(err.Error(), "encoder exploded") {
		t.Fatalf("want ffmpeg error, got=%v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("partial output left behind")
	}
}
