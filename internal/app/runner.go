package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/content/schema"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/pipeline"
	"github.com/yungbote/edugen-backend/internal/observability"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
	"github.com/yungbote/edugen-backend/internal/realtime/bus"
	"github.com/yungbote/edugen-backend/internal/services"
)

// Runner drives a single topic through the pipeline from the command line,
// writing the finished document to {outputDir}/scripts.
type Runner struct {
	Log       *logger.Logger
	Cfg       Config
	Pipeline  *pipeline.Pipeline
	Validator *schema.Validator
	Store     *services.FileStore
	Clients   Clients

	otelShutdown func(context.Context) error
}

// NewRunner loads configuration like the server does. A non-empty outputDir
// overrides the configured one.
func NewRunner(ctx context.Context, outputDir string) (*Runner, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(outputDir) != "" {
		cfg.OutputDir = outputDir
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	cfg.LogSummary(log)
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName + "-cli",
		Environment: cfg.Environment,
	})

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	store := services.NewFileStore(log, cfg.OutputDir)
	p, validator, err := wirePipeline(ctx, log, cfg, clients, store)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}
	return &Runner{
		Log:          log,
		Cfg:          cfg,
		Pipeline:     p,
		Validator:    validator,
		Store:        store,
		Clients:      clients,
		otelShutdown: otelShutdown,
	}, nil
}

// Run generates topic, printing progress and a preview to out. The returned
// error is the pipeline's failure, if any.
func (r *Runner) Run(ctx context.Context, topic string, out io.Writer) error {
	fmt.Fprintln(out, "Starting Educational Script Generation")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Topic: %s\n\n", topic)

	fwdCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if r.Clients.Bus != nil {
		if err := r.Clients.Bus.StartForwarder(fwdCtx, func(ev bus.Event) {
			fmt.Fprintf(out, "  -> %s\n", ev.State)
		}); err != nil {
			r.Log.Warn("Progress forwarder failed to start", "error", err)
		}
	}

	res, err := r.Pipeline.Run(ctx, uuid.Nil, topic)
	if err != nil {
		fmt.Fprintf(out, "\nWorkflow failed: %v\n", err)
		var vErr *pipeline.ValidationError
		if errors.As(err, &vErr) {
			for _, e := range vErr.Errors {
				fmt.Fprintf(out, "  - %s\n", e)
			}
		}
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, r.Validator.Report(res.Document))
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "FINAL OUTPUTS")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Script: %s\n", r.Store.Path(res.StoreID))
	fmt.Fprintf(out, "Audio files: %d\n", res.AudioFiles)
	fmt.Fprintf(out, "Frame files: %d\n", res.FrameFiles)
	if r.Pipeline.VideoEnabled() {
		fmt.Fprintf(out, "Video files: %d\n", res.VideoFiles)
	} else {
		fmt.Fprintln(out, "Video files: skipped (ffmpeg/ffprobe not found)")
	}
	fmt.Fprintln(out)
	WritePreview(out, res.Document)
	return nil
}

func (r *Runner) Close() {
	if r == nil {
		return
	}
	r.Clients.Close()
	if r.otelShutdown != nil {
		_ = r.otelShutdown(context.Background())
	}
	if r.Log != nil {
		r.Log.Sync()
	}
}

const previewLimit = 100

// WritePreview prints a short human-readable view of doc.
func WritePreview(w io.Writer, doc *lesson.Document) {
	if doc == nil {
		return
	}
	fmt.Fprintln(w, "Script Preview")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Topic: %s\n", doc.Metadata.Topic)
	fmt.Fprintf(w, "Language: %s\n", doc.Metadata.Language)
	fmt.Fprintf(w, "Duration: %.1fs\n\n", doc.Metadata.DurationEstimate)

	narrated := []struct {
		name string
		s    *lesson.NarrationSection
	}{
		{"Introduction", doc.Intro},
		{"Explanation", doc.Explanation},
	}
	for _, n := range narrated {
		writeNarration(w, n.name, n.s)
	}
	if q := doc.PracticeMCQ; q != nil {
		fmt.Fprintln(w, "Practice Question:")
		fmt.Fprintf(w, "  Question: %s\n", q.Question)
		fmt.Fprintf(w, "  Options: %d choices\n", len(q.Options))
		fmt.Fprintf(w, "  Correct Answer: Option %d\n\n", q.CorrectAnswer+1)
	}
	writeNarration(w, "Summary", doc.Summary)
}

func writeNarration(w io.Writer, name string, s *lesson.NarrationSection) {
	if s == nil {
		return
	}
	fmt.Fprintf(w, "%s:\n", name)
	if s.Title != "" {
		fmt.Fprintf(w, "  Title: %s\n", s.Title)
	}
	fmt.Fprintf(w, "  Narration: %s\n\n", clip(s.Narration, previewLimit))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
