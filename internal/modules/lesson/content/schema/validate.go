package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
)

var printer = message.NewPrinter(language.English)

// Validator checks lesson documents against a compiled draft-07 JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	b, err := FS.ReadFile(EduScriptV01Name + ".json")
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", EduScriptV01Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", EduScriptV01Name, err)
	}
	return compile(EduScriptV01Name+".json", doc)
}

// NewValidatorWithSchema validates against a caller supplied schema.
func NewValidatorWithSchema(s map[string]any) (*Validator, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return compile("custom.json", doc)
}

func compile(url string, doc any) (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft7)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", url, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return &Validator{schema: sch}, nil
}

// Validate reports whether doc conforms. The error list is empty iff ok.
func (v *Validator) Validate(doc *lesson.Document) (bool, []string) {
	if doc == nil {
		return false, []string{"Schema validation error: document is nil"}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return false, []string{fmt.Sprintf("Unexpected error during validation: %v", err)}
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return false, []string{fmt.Sprintf("Unexpected error during validation: %v", err)}
	}
	errs := v.ValidateValue(inst)
	if mcq := doc.PracticeMCQ; mcq != nil && len(mcq.Options) > 0 && mcq.CorrectAnswer >= len(mcq.Options) {
		errs = append(errs, fmt.Sprintf("$.practice_mcq.correct_answer: index %d out of range for %d options", mcq.CorrectAnswer, len(mcq.Options)))
	}
	return len(errs) == 0, errs
}

// ValidateValue checks an already decoded JSON value and returns one message
// per failing leaf, prefixed with its "$.a.b[0]" location.
func (v *Validator) ValidateValue(value any) []string {
	err := v.schema.Validate(value)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("Unexpected error during validation: %v", err)}
	}
	var errs []string
	collect(ve, &errs)
	sort.Strings(errs)
	return errs
}

func collect(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		*errs = append(*errs, location(ve.InstanceLocation)+": "+ve.ErrorKind.LocalizedString(printer))
		return
	}
	for _, c := range ve.Causes {
		collect(c, errs)
	}
}

func location(tokens []string) string {
	var b strings.Builder
	b.WriteString("$")
	for _, t := range tokens {
		if isIndex(t) {
			b.WriteString("[" + t + "]")
			continue
		}
		b.WriteString("." + t)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatErrors prefixes each error the way validation reports print them.
func FormatErrors(errs []string) string {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, "Schema validation error: "+e)
	}
	return strings.Join(lines, "\n")
}
