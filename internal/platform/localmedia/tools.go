package localmedia

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/edugen-backend/internal/pkg/ctxutil"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// Tools wraps the ffmpeg/ffprobe binaries used to turn a still frame and a
// narration clip into a video.
//
// REQUIRED BINARIES: ffmpeg and ffprobe on PATH. Callers should probe
// IsAvailable once and disable video output when it returns false.
type Tools interface {
	IsAvailable(ctx context.Context) bool
	AssertReady(ctx context.Context) error

	ProbeDuration(ctx context.Context, mediaPath string) (time.Duration, error)
	AssembleStill(ctx context.Context, framePath string, audioPath string, outPath string, opts StillOptions) error
}

type StillOptions struct {
	FPS          int
	AudioBitrate string // e.g. "192k"
	// Duration overrides the probed audio length when positive.
	Duration time.Duration
}

// Runner executes a binary and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type Config struct {
	FFmpegPath  string
	FFprobePath string
	Timeout     time.Duration
	FPS         int
	Runner      Runner
	LookPath    func(string) (string, error)
}

type tools struct {
	log *logger.Logger

	ffmpegPath  string
	ffprobePath string
	fps         int

	run      Runner
	lookPath func(string) (string, error)

	defaultTimeout time.Duration
}

func New(log *logger.Logger, cfg Config) Tools {
	t := &tools{
		log:            log.With("service", "MediaTools"),
		ffmpegPath:     cfg.FFmpegPath,
		ffprobePath:    cfg.FFprobePath,
		fps:            cfg.FPS,
		run:            cfg.Runner,
		lookPath:       cfg.LookPath,
		defaultTimeout: cfg.Timeout,
	}
	if t.ffmpegPath == "" {
		t.ffmpegPath = "ffmpeg"
	}
	if t.ffprobePath == "" {
		t.ffprobePath = "ffprobe"
	}
	if t.fps <= 0 {
		t.fps = 24
	}
	if t.run == nil {
		t.run = execRunner
	}
	if t.lookPath == nil {
		t.lookPath = exec.LookPath
	}
	if t.defaultTimeout <= 0 {
		t.defaultTimeout = 5 * time.Minute
	}
	return t
}

func (m *tools) IsAvailable(ctx context.Context) bool {
	if err := m.AssertReady(ctx); err != nil {
		m.log.Warn("Video tools unavailable", "error", err.Error())
		return false
	}
	return true
}

func (m *tools) AssertReady(ctx context.Context) error {
	for _, bin := range []string{m.ffmpegPath, m.ffprobePath} {
		if _, err := m.lookPath(bin); err != nil {
			return fmt.Errorf("missing required binary %q in PATH: %w", bin, err)
		}
	}
	return nil
}

func (m *tools) ProbeDuration(ctx context.Context, mediaPath string) (time.Duration, error) {
	ctx = ctxutil.Default(ctx)
	if mediaPath == "" {
		return 0, fmt.Errorf("mediaPath required")
	}
	ctx, cancel := context.WithTimeout(ctx, m.defaultTimeout)
	defer cancel()

	out, err := m.run(ctx, m.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		mediaPath,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration failed: %w; out=%s", err, strings.TrimSpace(string(out)))
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("ffprobe returned unusable duration %q", strings.TrimSpace(string(out)))
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// AssembleStill holds framePath on screen for the length of audioPath and
// muxes both into an H.264/AAC mp4 at outPath.
func (m *tools) AssembleStill(ctx context.Context, framePath string, audioPath string, outPath string, opts StillOptions) error {
	ctx = ctxutil.Default(ctx)
	if framePath == "" || audioPath == "" || outPath == "" {
		return fmt.Errorf("framePath, audioPath and outPath required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir outPath dir: %w", err)
	}

	dur := opts.Duration
	if dur <= 0 {
		probed, err := m.ProbeDuration(ctx, audioPath)
		if err != nil {
			return err
		}
		dur = probed
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = m.fps
	}
	bitrate := strings.TrimSpace(opts.AudioBitrate)
	if bitrate == "" {
		bitrate = "192k"
	}

	ctx, cancel := context.WithTimeout(ctx, m.defaultTimeout)
	defer cancel()

	args := []string{
		"-y",
		"-loop", "1",
		"-framerate", strconv.Itoa(fps),
		"-i", framePath,
		"-i", audioPath,
		"-c:v", "libx264",
		"-tune", "stillimage",
		"-c:a", "aac",
		"-b:a", bitrate,
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(fps),
		"-t", strconv.FormatFloat(dur.Seconds(), 'f', 3, 64),
		"-shortest",
		outPath,
	}
	out, err := m.run(ctx, m.ffmpegPath, args...)
	if err != nil {
		_ = os.Remove(outPath)
		return fmt.Errorf("ffmpeg assemble failed: %w; out=%s", err, tail(string(out), 400))
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("video output missing at %s", outPath)
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
