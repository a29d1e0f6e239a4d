package steps

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// Synthesizer turns text into encoded audio.
type Synthesizer interface {
	Speech(ctx context.Context, text string, voice string) ([]byte, error)
}

const DefaultVoice = "nova"

// AudioExt matches the encoding requested from the speech endpoint.
const AudioExt = ".mp3"

var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

var ErrUnknownVoice = errors.New("unknown voice")

// ValidVoice reports whether v is one of Voices.
func ValidVoice(v string) bool {
	for _, known := range Voices {
		if v == known {
			return true
		}
	}
	return false
}

type AudioStage struct {
	log   *logger.Logger
	tts   Synthesizer
	voice string
	opts  StageOptions
}

// NewAudioStage fails with ErrUnknownVoice before any synthesis is attempted
// when voice is not supported. An empty voice selects DefaultVoice.
func NewAudioStage(log *logger.Logger, tts Synthesizer, voice string, opts StageOptions) (*AudioStage, error) {
	voice = strings.ToLower(strings.TrimSpace(voice))
	if voice == "" {
		voice = DefaultVoice
	}
	if !ValidVoice(voice) {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownVoice, voice, strings.Join(Voices, ", "))
	}
	return &AudioStage{log: log.With("stage", "SynthesizingAudio"), tts: tts, voice: voice, opts: opts}, nil
}

func (s *AudioStage) Voice() string { return s.voice }

// SynthesizeAll writes "{scriptID}_{key}.mp3" into outputDir for every unit
// with non-blank text. Failed units are logged and left out of the result.
func (s *AudioStage) SynthesizeAll(ctx context.Context, doc *lesson.Document, outputDir string, scriptID string) ([]lesson.Artifact, error) {
	if err := ensureDir(outputDir); err != nil {
		return nil, err
	}
	arts := runUnits(ctx, s.log, textUnits(doc), s.opts, func(ctx context.Context, u lesson.Unit) (string, error) {
		text, _ := doc.Text(u)
		audio, err := s.tts.Speech(ctx, text, s.voice)
		if err != nil {
			return "", err
		}
		name := lesson.ArtifactName(scriptID, u.Key(), AudioExt)
		if err := writeFileAtomic(filepath.Join(outputDir, name), audio); err != nil {
			return "", fmt.Errorf("write audio: %w", err)
		}
		return name, nil
	})
	s.log.Info("Audio stage finished", "script_id", scriptID, "voice", s.voice, "files", len(arts))
	return arts, nil
}
