package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/prompts"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/steps"
	"github.com/yungbote/edugen-backend/internal/observability"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
	"github.com/yungbote/edugen-backend/internal/realtime/bus"
)

// Validator checks a drafted document before any media is produced.
type Validator interface {
	Validate(doc *lesson.Document) (bool, []string)
}

// Store persists a finished document and returns its storage id.
type Store interface {
	Save(ctx context.Context, ownerID uuid.UUID, scriptID string, doc *lesson.Document) (string, error)
}

// Mirror copies a local artifact to remote object storage under key.
type Mirror interface {
	MirrorFile(ctx context.Context, key string, localPath string) error
}

const (
	AudioDir   = "audio"
	FramesDir  = "frames"
	VideosDir  = "videos"
	ScriptsDir = "scripts"
	// IDsDir holds one marker per script id ever minted for OutputDir.
	IDsDir = ".script_ids"
)

type Deps struct {
	Log       *logger.Logger
	Drafter   *steps.DraftBuilder
	Validator Validator
	Audio     *steps.AudioStage
	Frames    *steps.FrameStage
	// Video may be nil, which disables video assembly.
	Video   *steps.VideoStage
	Store   Store
	Bus     bus.Bus
	Mirror  Mirror
	IDs     *lesson.IDMinter
	Tracer  trace.Tracer
	Metrics *observability.Metrics
}

type Options struct {
	OutputDir      string
	Template       string
	PersistTimeout time.Duration
}

type Pipeline struct {
	mu           sync.Mutex
	deps         Deps
	opts         Options
	log          *logger.Logger
	videoEnabled bool
}

// New wires a coordinator. The video tools are probed once here; when they
// are missing every run records videos_generated=false.
func New(ctx context.Context, deps Deps, opts Options) (*Pipeline, error) {
	if deps.Drafter == nil || deps.Validator == nil || deps.Audio == nil || deps.Frames == nil || deps.Store == nil {
		return nil, errors.New("pipeline: drafter, validator, audio, frames and store are required")
	}
	if opts.OutputDir == "" {
		return nil, errors.New("pipeline: output directory required")
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.IDs == nil {
		deps.IDs = lesson.NewIDMinter(nil)
	}
	deps.IDs.WithReserver(lesson.DirReserver{
		Dir:   filepath.Join(opts.OutputDir, IDsDir),
		Taken: func(id string) bool { return idInUse(opts.OutputDir, id) },
	})
	if deps.Tracer == nil {
		deps.Tracer = observability.Tracer()
	}
	if opts.Template == "" {
		opts.Template = prompts.MathTemplate()
	}
	p := &Pipeline{
		deps: deps,
		opts: opts,
		log:  deps.Log.With("service", "LessonPipeline"),
	}
	if deps.Video != nil {
		p.videoEnabled = deps.Video.Available(ctx)
	}
	if !p.videoEnabled {
		p.log.Warn("Video tools unavailable; video assembly disabled")
	}
	return p, nil
}

func (p *Pipeline) VideoEnabled() bool { return p.videoEnabled }

func (p *Pipeline) OutputDir() string { return p.opts.OutputDir }

// Transition is one entry of a run's state history.
type Transition struct {
	State State     `json:"state"`
	At    time.Time `json:"at"`
}

type Result struct {
	RunID      string           `json:"run_id"`
	StoreID    string           `json:"store_id,omitempty"`
	ScriptID   string           `json:"script_id"`
	Document   *lesson.Document `json:"document,omitempty"`
	State      State            `json:"state"`
	History    []Transition     `json:"history"`
	AudioFiles int              `json:"audio_files"`
	FrameFiles int              `json:"frame_files"`
	VideoFiles int              `json:"video_files"`
}

type run struct {
	p      *Pipeline
	res    *Result
	topic  string
	log    *logger.Logger
	doc    *lesson.Document
	failed State
}

// Run drives one topic through every stage. Runs are serialized. On failure
// the partial Result is returned together with a *RunError.
func (p *Pipeline) Run(ctx context.Context, ownerID uuid.UUID, topic string) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := &run{
		p:     p,
		topic: topic,
		res:   &Result{RunID: uuid.NewString()},
	}
	r.log = p.log.With("run_id", r.res.RunID, "owner_id", ownerID.String())

	scriptID, err := p.deps.IDs.Mint(topic)
	if err != nil {
		r.failed = StateDrafting
		r.enter(ctx, StateFailed, err.Error())
		r.log.Error("Script id unavailable", "topic", topic, "error", err.Error())
		return r.res, &RunError{State: StateDrafting, Err: err}
	}
	r.res.ScriptID = scriptID
	r.log = r.log.With("script_id", scriptID)

	ctx, span := p.deps.Tracer.Start(ctx, "lesson.run", trace.WithAttributes(
		attribute.String("lesson.topic", topic),
		attribute.String("lesson.script_id", scriptID),
	))
	defer span.End()

	start := time.Now()
	r.log.Info("Lesson run started", "topic", topic)
	if err := r.execute(ctx, ownerID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.enter(ctx, StateFailed, err.Error())
		r.log.Error("Lesson run failed", "state", string(r.failed), "error", err.Error(), "elapsed", time.Since(start).String())
		return r.res, &RunError{State: r.failed, Err: err}
	}
	r.enter(ctx, StateDone, r.res.StoreID)
	r.log.Info("Lesson run finished",
		"store_id", r.res.StoreID,
		"audio_files", r.res.AudioFiles,
		"frame_files", r.res.FrameFiles,
		"video_files", r.res.VideoFiles,
		"elapsed", time.Since(start).String(),
	)
	return r.res, nil
}

func (r *run) execute(ctx context.Context, ownerID uuid.UUID) error {
	p := r.p
	scriptID := r.res.ScriptID
	audioDir := filepath.Join(p.opts.OutputDir, AudioDir)
	framesDir := filepath.Join(p.opts.OutputDir, FramesDir)
	videosDir := filepath.Join(p.opts.OutputDir, VideosDir)

	if err := r.stage(ctx, StateDrafting, func(ctx context.Context) error {
		doc, err := p.deps.Drafter.Build(ctx, r.topic, p.opts.Template)
		if err != nil {
			return err
		}
		r.doc = doc
		r.res.Document = doc
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, StateValidating, func(ctx context.Context) error {
		if ok, errs := p.deps.Validator.Validate(r.doc); !ok {
			return &ValidationError{Errors: errs}
		}
		return nil
	}); err != nil {
		return err
	}

	_ = r.stage(ctx, StateSynthesizingAudio, func(ctx context.Context) error {
		arts, err := p.deps.Audio.SynthesizeAll(ctx, r.doc, audioDir, scriptID)
		if err != nil {
			r.log.Warn("Audio stage failed; continuing without audio", "error", err.Error())
			arts = nil
		}
		steps.MergeAudio(r.doc, arts, p.deps.Audio.Voice())
		r.res.AudioFiles = len(arts)
		p.deps.Metrics.AddArtifacts("audio", len(arts))
		return nil
	})

	_ = r.stage(ctx, StateRenderingFrames, func(ctx context.Context) error {
		arts, err := p.deps.Frames.RenderAll(ctx, r.doc, framesDir, scriptID)
		if err != nil {
			r.log.Warn("Frame stage failed; continuing without frames", "error", err.Error())
			arts = nil
		}
		steps.MergeFrames(r.doc, arts)
		r.res.FrameFiles = len(arts)
		p.deps.Metrics.AddArtifacts("frame", len(arts))
		return nil
	})

	if p.videoEnabled {
		_ = r.stage(ctx, StateAssemblingVideo, func(ctx context.Context) error {
			arts, err := p.deps.Video.AssembleAll(ctx, r.doc, audioDir, framesDir, videosDir, scriptID)
			if err != nil {
				r.log.Warn("Video stage failed; continuing without video", "error", err.Error())
				arts = nil
			}
			steps.MergeVideos(r.doc, arts)
			r.res.VideoFiles = len(arts)
			p.deps.Metrics.AddArtifacts("video", len(arts))
			return nil
		})
	} else {
		steps.MarkVideosDisabled(r.doc)
	}

	if p.deps.Mirror != nil {
		r.mirror(ctx)
	}

	return r.stage(ctx, StatePersisting, func(ctx context.Context) error {
		if p.opts.PersistTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.opts.PersistTimeout)
			defer cancel()
		}
		id, err := p.deps.Store.Save(ctx, ownerID, scriptID, r.doc.Clone())
		if err != nil {
			return fmt.Errorf("persist script: %w", err)
		}
		r.res.StoreID = id
		return nil
	})
}

// stage records the transition into s, runs fn inside a span, and reports
// its outcome. Errors from states that cannot fail are only logged.
func (r *run) stage(ctx context.Context, s State, fn func(ctx context.Context) error) error {
	r.enter(ctx, s, "")
	ctx, span := r.p.deps.Tracer.Start(ctx, "lesson.stage."+string(s), trace.WithAttributes(
		attribute.String("lesson.state", string(s)),
	))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	r.p.deps.Metrics.ObserveStage(string(s), status, time.Since(start))
	if err != nil && s.canFail() {
		r.failed = s
		return err
	}
	if err != nil {
		r.log.Warn("Stage error ignored", "state", string(s), "error", err.Error())
	}
	return nil
}

func (r *run) enter(ctx context.Context, s State, detail string) {
	now := time.Now().UTC()
	r.res.State = s
	r.res.History = append(r.res.History, Transition{State: s, At: now})
	r.log.Debug("State entered", "state", string(s))
	if r.p.deps.Bus == nil {
		return
	}
	ev := bus.Event{
		RunID:    r.res.RunID,
		ScriptID: r.res.ScriptID,
		Topic:    r.topic,
		State:    string(s),
		Detail:   detail,
		At:       now,
	}
	if err := r.p.deps.Bus.Publish(ctx, ev); err != nil {
		r.log.Warn("Progress event dropped", "state", string(s), "error", err.Error())
	}
}

// mirror uploads the run's artifacts under their directory prefix. Upload
// failures never affect the run.
func (r *run) mirror(ctx context.Context) {
	meta := r.doc.Metadata
	groups := []struct {
		dir   string
		files []string
	}{
		{AudioDir, meta.AudioFiles},
		{FramesDir, meta.FrameFiles},
		{VideosDir, meta.VideoFiles},
	}
	uploaded := 0
	for _, g := range groups {
		for _, name := range g.files {
			local := filepath.Join(r.p.opts.OutputDir, g.dir, name)
			if err := r.p.deps.Mirror.MirrorFile(ctx, g.dir+"/"+name, local); err != nil {
				r.log.Warn("Artifact mirror failed", "file", name, "error", err.Error())
				continue
			}
			uploaded++
		}
	}
	r.log.Info("Artifacts mirrored", "files", uploaded)
}

// idInUse reports whether any file a run with id would write already exists
// under outputDir.
func idInUse(outputDir, id string) bool {
	paths := []string{filepath.Join(outputDir, ScriptsDir, id+".json")}
	for _, u := range lesson.Units() {
		k := u.Key()
		paths = append(paths,
			filepath.Join(outputDir, AudioDir, lesson.ArtifactName(id, k, steps.AudioExt)),
			filepath.Join(outputDir, FramesDir, lesson.ArtifactName(id, k, ".png")),
			filepath.Join(outputDir, VideosDir, lesson.ArtifactName(id, k, ".mp4")),
		)
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}
