package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/prompts"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// Drafter returns the raw JSON object text a language model produced for a prompt.
type Drafter interface {
	GenerateJSONObject(ctx context.Context, system string, user string) (string, error)
}

// DraftParseError means the drafting service answered with something that is
// not a JSON object.
type DraftParseError struct {
	Raw string
	Err error
}

func (e *DraftParseError) Error() string {
	return fmt.Sprintf("draft is not a JSON object: %v", e.Err)
}

func (e *DraftParseError) Unwrap() error { return e.Err }

// DraftShapeError means the draft parsed but lacks a section or has a section
// of the wrong shape.
type DraftShapeError struct {
	Section lesson.Section
	Reason  string
}

func (e *DraftShapeError) Error() string {
	return fmt.Sprintf("draft section %q: %s", e.Section, e.Reason)
}

const (
	envelopeKey = "edu_script_v0.1"
	contentKey  = "content"
)

type DraftBuilder struct {
	log     *logger.Logger
	ai      Drafter
	timeout time.Duration
}

func NewDraftBuilder(log *logger.Logger, ai Drafter, timeout time.Duration) *DraftBuilder {
	return &DraftBuilder{log: log.With("stage", "Drafting"), ai: ai, timeout: timeout}
}

// Build drafts a lesson for topic using template, which must hold exactly one
// {topic} placeholder. Metadata on the result is always rebuilt locally.
func (b *DraftBuilder) Build(ctx context.Context, topic string, template string) (*lesson.Document, error) {
	prompt, err := prompts.Format(template, topic)
	if err != nil {
		return nil, err
	}
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	start := time.Now()
	raw, err := b.ai.GenerateJSONObject(ctx, prompts.SystemInstruction, prompt)
	if err != nil {
		return nil, fmt.Errorf("drafting request: %w", err)
	}
	doc, err := ParseDraft(raw)
	if err != nil {
		return nil, err
	}
	doc.Metadata = lesson.Metadata{
		Version:          lesson.MetadataVersion,
		Language:         lesson.MetadataLanguage,
		Tone:             lesson.MetadataTone,
		Topic:            topic,
		DurationEstimate: EstimateDuration(doc),
	}
	b.log.Info("Draft built",
		"topic", topic,
		"duration_estimate", doc.Metadata.DurationEstimate,
		"elapsed", time.Since(start).String(),
	)
	return doc, nil
}

// ParseDraft decodes a drafting response, unwrapping the optional
// {"edu_script_v0.1": {"content": {...}}} envelopes, and requires the four
// lesson sections to be present as objects. Any drafted metadata is dropped.
func ParseDraft(raw string) (*lesson.Document, error) {
	obj, err := decodeObject([]byte(raw))
	if err != nil {
		return nil, &DraftParseError{Raw: raw, Err: err}
	}
	if inner, ok := obj[envelopeKey]; ok && isObject(inner) {
		obj, _ = decodeObject(inner)
		if inner, ok := obj[contentKey]; ok && isObject(inner) {
			obj, _ = decodeObject(inner)
		}
	}

	doc := &lesson.Document{}
	targets := map[lesson.Section]any{
		lesson.SectionIntro:       &doc.Intro,
		lesson.SectionExplanation: &doc.Explanation,
		lesson.SectionPracticeMCQ: &doc.PracticeMCQ,
		lesson.SectionSummary:     &doc.Summary,
	}
	for _, s := range lesson.Sections() {
		sec, ok := obj[string(s)]
		if !ok {
			return nil, &DraftShapeError{Section: s, Reason: "missing"}
		}
		if !isObject(sec) {
			return nil, &DraftShapeError{Section: s, Reason: "not an object"}
		}
		if err := json.Unmarshal(sec, targets[s]); err != nil {
			return nil, &DraftShapeError{Section: s, Reason: err.Error()}
		}
	}
	return doc, nil
}

func decodeObject(b []byte) (map[string]json.RawMessage, error) {
	if !isObject(b) {
		var probe any
		if err := json.Unmarshal(b, &probe); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("top-level value is not an object")
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

// EstimateDuration is the reading time of the five narrated texts in seconds,
// at four words per second, rounded to one decimal. The texts are joined with
// no separator, so words meeting at a field boundary count once.
func EstimateDuration(doc *lesson.Document) float64 {
	parts := make([]string, 0, len(lesson.Units()))
	for _, u := range lesson.Units() {
		text, _ := doc.Text(u)
		parts = append(parts, text)
	}
	words := len(strings.Fields(strings.Join(parts, "")))
	return math.RoundToEven(float64(words)/4.0*10) / 10
}
