package lesson

// Section names one of the fixed parts of a lesson script.
type Section string

const (
	SectionIntro       Section = "intro"
	SectionExplanation Section = "explanation"
	SectionPracticeMCQ Section = "practice_mcq"
	SectionSummary     Section = "summary"
)

// Sections returns the four lesson sections in script order.
func Sections() []Section {
	return []Section{SectionIntro, SectionExplanation, SectionPracticeMCQ, SectionSummary}
}

// Role names the text-bearing field of a section that gets narrated.
type Role string

const (
	RoleNarration   Role = "narration"
	RoleQuestion    Role = "question"
	RoleExplanation Role = "explanation"
)

// ArtifactKey is the stable identifier of a unit, used as the filename stem
// suffix for every artifact generated from it.
type ArtifactKey string

const (
	KeyIntroNarration       ArtifactKey = "intro_narration"
	KeyExplanationNarration ArtifactKey = "explanation_narration"
	KeyPracticeQuestion     ArtifactKey = "practice_mcq_question"
	KeyPracticeExplanation  ArtifactKey = "practice_mcq_explanation"
	KeySummaryNarration     ArtifactKey = "summary_narration"
)

// Unit is one (section, role) pair that produces one audio clip, one frame
// and one video.
type Unit struct {
	Section Section
	Role    Role
}

func (u Unit) Key() ArtifactKey {
	return ArtifactKey(string(u.Section) + "_" + string(u.Role))
}

var units = [...]Unit{
	{SectionIntro, RoleNarration},
	{SectionExplanation, RoleNarration},
	{SectionPracticeMCQ, RoleQuestion},
	{SectionPracticeMCQ, RoleExplanation},
	{SectionSummary, RoleNarration},
}

// Units returns every artifact unit in generation order.
func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units[:])
	return out
}

// UnitForKey is the inverse of Unit.Key.
func UnitForKey(k ArtifactKey) (Unit, bool) {
	for _, u := range units {
		if u.Key() == k {
			return u, true
		}
	}
	return Unit{}, false
}

// Artifact is one generated file, tagged with the unit it was generated for.
// Filename is a basename relative to the stage's output directory.
type Artifact struct {
	Key      ArtifactKey
	Filename string
}

// Filenames returns the artifact basenames in the order given.
func Filenames(arts []Artifact) []string {
	out := make([]string, 0, len(arts))
	for _, a := range arts {
		out = append(out, a.Filename)
	}
	return out
}

// ArtifactName builds "{scriptID}_{key}{ext}".
func ArtifactName(scriptID string, key ArtifactKey, ext string) string {
	return scriptID + "_" + string(key) + ext
}
