package schema

import (
	"fmt"
	"strings"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
)

// Report renders a human readable validation summary: the schema verdict
// followed by the section, metadata and practice question checks.
func (v *Validator) Report(doc *lesson.Document) string {
	ok, errs := v.Validate(doc)
	var b strings.Builder
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "LESSON SCRIPT VALIDATION REPORT")
	fmt.Fprintln(&b, rule)
	if ok {
		fmt.Fprintln(&b, "[ok]   validation passed")
		fmt.Fprintf(&b, "The script conforms to %s.\n", EduScriptV01Name)
	} else {
		fmt.Fprintln(&b, "[fail] validation failed")
		for i, e := range errs {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, e)
		}
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "additional checks")
	fmt.Fprintln(&b, strings.Repeat("-", 30))
	if doc == nil {
		return b.String()
	}
	for _, s := range lesson.Sections() {
		check(&b, doc.HasSection(s), fmt.Sprintf("%s section present", s), fmt.Sprintf("%s section missing", s))
	}
	check(&b, doc.Metadata.Language == lesson.MetadataLanguage, "language set to "+lesson.MetadataLanguage, "language not set to "+lesson.MetadataLanguage)
	check(&b, doc.Metadata.Tone == lesson.MetadataTone, "tone set to "+lesson.MetadataTone, "tone not set to "+lesson.MetadataTone)
	if mcq := doc.PracticeMCQ; mcq != nil {
		check(&b, len(mcq.Options) >= 2, "practice question has enough options", "practice question options insufficient")
		check(&b, mcq.CorrectAnswer >= 0 && mcq.CorrectAnswer < len(mcq.Options), "practice question answer index valid", "practice question answer index invalid")
	}
	return b.String()
}

func check(b *strings.Builder, pass bool, okMsg, failMsg string) {
	if pass {
		fmt.Fprintf(b, "[ok]   %s\n", okMsg)
		return
	}
	fmt.Fprintf(b, "[fail] %s\n", failMsg)
}
