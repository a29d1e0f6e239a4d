package prompts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatSubstitutesTopic(t *testing.T) {
	got, err := Format(`Teach "{topic}" as {{"json": true}}`, "10 minus 4")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if want := `Teach "10 minus 4" as {"json": true}`; got != want {
		t.Fatalf("format: want=%q got=%q", want, got)
	}
}

func TestFormatTopicIsNotReinterpreted(t *testing.T) {
	got, err := Format("Topic: {topic}", "{weird} }{")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got != "Topic: {weird} }{" {
		t.Fatalf("format: got=%q", got)
	}
}

func TestFormatRejectsBadTemplates(t *testing.T) {
	cases := map[string]string{
		"no placeholder":      "Write a lesson.",
		"two placeholders":    "{topic} and {topic}",
		"unknown placeholder": "{topic} for {grade}",
		"positional":          "{topic} {}",
		"unclosed":            "{topic} {",
		"stray close":         "{topic} }",
	}
	for name, tmpl := range cases {
		_, err := Format(tmpl, "fractions")
		var te *TemplateError
		if !errors.As(err, &te) {
			t.Fatalf("%s: want *TemplateError got=%v", name, err)
		}
	}
}

func TestMathTemplateFormats(t *testing.T) {
	got, err := Format(MathTemplate(), "adding fractions")
	if err != nil {
		t.Fatalf("math template: %v", err)
	}
	if !strings.Contains(got, `"adding fractions"`) || !strings.Contains(got, `"practice_mcq": {`) {
		t.Fatalf("math template rendered unexpectedly:\n%s", got)
	}
}

func TestLoadTemplate(t *testing.T) {
	def, err := LoadTemplate("")
	if err != nil || def != MathTemplate() {
		t.Fatalf("default template: err=%v", err)
	}
	path := filepath.Join(t.TempDir(), "custom.txt")
	if err := os.WriteFile(path, []byte("Lesson on {topic}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadTemplate(path)
	if err != nil || got != "Lesson on {topic}" {
		t.Fatalf("custom template: got=%q err=%v", got, err)
	}
	if _, err := LoadTemplate(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("want error for missing file")
	}
}
