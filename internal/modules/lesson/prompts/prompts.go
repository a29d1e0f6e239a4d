package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

// SystemInstruction is sent with every drafting request.
const SystemInstruction = "You are a senior educational content generation expert, specializing in creating teaching scripts for elementary students. Please strictly follow the edu_script_v0.1 schema to generate JSON format educational content."

//go:embed prompt_template_math.txt
var mathTemplate string

// MathTemplate is the default drafting template.
func MathTemplate() string { return mathTemplate }

// LoadTemplate reads a template from path, or returns the default template
// when path is empty.
func LoadTemplate(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return mathTemplate, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	return string(b), nil
}

const topicField = "topic"

// TemplateError reports a template that cannot be rendered for a topic.
type TemplateError struct {
	Offset int
	Reason string
}

func (e *TemplateError) Error() string {
	if e.Offset < 0 {
		return "prompt template: " + e.Reason
	}
	return fmt.Sprintf("prompt template: %s at offset %d", e.Reason, e.Offset)
}

// Format substitutes topic into the single {topic} placeholder of template.
// Literal braces are written {{ and }}. Any other placeholder, an unbalanced
// brace, or a placeholder count other than one is a *TemplateError.
func Format(template string, topic string) (string, error) {
	var b strings.Builder
	b.Grow(len(template) + len(topic))
	substitutions := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", &TemplateError{Offset: i, Reason: "unclosed '{'"}
			}
			name := template[i+1 : i+1+end]
			if name != topicField {
				return "", &TemplateError{Offset: i, Reason: fmt.Sprintf("unknown placeholder {%s}", name)}
			}
			b.WriteString(topic)
			substitutions++
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", &TemplateError{Offset: i, Reason: "single '}' encountered"}
		default:
			b.WriteByte(c)
		}
	}
	if substitutions != 1 {
		return "", &TemplateError{Offset: -1, Reason: fmt.Sprintf("expected exactly one {%s} placeholder, found %d", topicField, substitutions)}
	}
	return b.String(), nil
}
