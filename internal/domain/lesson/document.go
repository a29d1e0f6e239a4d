package lesson

import "strings"

// Document is the lesson script: four content sections plus metadata. Fields
// for generated media are empty until the matching stage has produced a file.
type Document struct {
	Intro       *NarrationSection `json:"intro,omitempty"`
	Explanation *NarrationSection `json:"explanation,omitempty"`
	PracticeMCQ *PracticeMCQ      `json:"practice_mcq,omitempty"`
	Summary     *NarrationSection `json:"summary,omitempty"`
	Metadata    Metadata          `json:"metadata"`
}

type NarrationSection struct {
	Title          string `json:"title,omitempty"`
	Narration      string `json:"narration"`
	AudioNarration string `json:"audio_narration,omitempty"`
	Frame          string `json:"frame,omitempty"`
	Video          string `json:"video,omitempty"`
}

type PracticeMCQ struct {
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	CorrectAnswer    int      `json:"correct_answer"`
	Explanation      string   `json:"explanation"`
	AudioQuestion    string   `json:"audio_question,omitempty"`
	AudioExplanation string   `json:"audio_explanation,omitempty"`
	Frame            *PairRef `json:"frame,omitempty"`
	Video            *PairRef `json:"video,omitempty"`
}

// PairRef holds the per-role media files of the practice question.
type PairRef struct {
	Question    string `json:"question,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

type Metadata struct {
	Version          string   `json:"version"`
	Language         string   `json:"language"`
	Tone             string   `json:"tone"`
	Topic            string   `json:"topic"`
	DurationEstimate float64  `json:"duration_estimate"`
	AudioGenerated   *bool    `json:"audio_generated,omitempty"`
	VoiceUsed        string   `json:"voice_used,omitempty"`
	AudioFiles       []string `json:"audio_files,omitempty"`
	FramesGenerated  *bool    `json:"frames_generated,omitempty"`
	FrameFiles       []string `json:"frame_files,omitempty"`
	VideosGenerated  *bool    `json:"videos_generated,omitempty"`
	VideoFiles       []string `json:"video_files,omitempty"`
}

const (
	MetadataVersion  = "0.1"
	MetadataLanguage = "en-US"
	MetadataTone     = "elementary"
)

// Title returns the intro title, falling back to the topic.
func (d *Document) Title() string {
	if d.Intro != nil && strings.TrimSpace(d.Intro.Title) != "" {
		return d.Intro.Title
	}
	return d.Metadata.Topic
}

func (d *Document) HasSection(s Section) bool {
	switch s {
	case SectionIntro:
		return d.Intro != nil
	case SectionExplanation:
		return d.Explanation != nil
	case SectionPracticeMCQ:
		return d.PracticeMCQ != nil
	case SectionSummary:
		return d.Summary != nil
	}
	return false
}

func (d *Document) narrationSection(s Section) *NarrationSection {
	switch s {
	case SectionIntro:
		return d.Intro
	case SectionExplanation:
		return d.Explanation
	case SectionSummary:
		return d.Summary
	}
	return nil
}

// Text returns the text of a unit. ok is false when the unit's section is absent.
func (d *Document) Text(u Unit) (text string, ok bool) {
	if u.Section == SectionPracticeMCQ {
		if d.PracticeMCQ == nil {
			return "", false
		}
		switch u.Role {
		case RoleQuestion:
			return d.PracticeMCQ.Question, true
		case RoleExplanation:
			return d.PracticeMCQ.Explanation, true
		}
		return "", false
	}
	sec := d.narrationSection(u.Section)
	if sec == nil || u.Role != RoleNarration {
		return "", false
	}
	return sec.Narration, true
}

// SetAudio records the audio file for the unit identified by key.
func (d *Document) SetAudio(key ArtifactKey, filename string) bool {
	u, ok := UnitForKey(key)
	if !ok || !d.HasSection(u.Section) {
		return false
	}
	if u.Section == SectionPracticeMCQ {
		if u.Role == RoleQuestion {
			d.PracticeMCQ.AudioQuestion = filename
		} else {
			d.PracticeMCQ.AudioExplanation = filename
		}
		return true
	}
	d.narrationSection(u.Section).AudioNarration = filename
	return true
}

// SetFrame records the frame image for the unit identified by key.
func (d *Document) SetFrame(key ArtifactKey, filename string) bool {
	u, ok := UnitForKey(key)
	if !ok || !d.HasSection(u.Section) {
		return false
	}
	if u.Section == SectionPracticeMCQ {
		if d.PracticeMCQ.Frame == nil {
			d.PracticeMCQ.Frame = &PairRef{}
		}
		d.PracticeMCQ.Frame.set(u.Role, filename)
		return true
	}
	d.narrationSection(u.Section).Frame = filename
	return true
}

// SetVideo records the video file for the unit identified by key.
func (d *Document) SetVideo(key ArtifactKey, filename string) bool {
	u, ok := UnitForKey(key)
	if !ok || !d.HasSection(u.Section) {
		return false
	}
	if u.Section == SectionPracticeMCQ {
		if d.PracticeMCQ.Video == nil {
			d.PracticeMCQ.Video = &PairRef{}
		}
		d.PracticeMCQ.Video.set(u.Role, filename)
		return true
	}
	d.narrationSection(u.Section).Video = filename
	return true
}

func (p *PairRef) set(r Role, filename string) {
	if r == RoleQuestion {
		p.Question = filename
	} else {
		p.Explanation = filename
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Metadata: d.Metadata.clone()}
	if d.Intro != nil {
		s := *d.Intro
		out.Intro = &s
	}
	if d.Explanation != nil {
		s := *d.Explanation
		out.Explanation = &s
	}
	if d.Summary != nil {
		s := *d.Summary
		out.Summary = &s
	}
	if d.PracticeMCQ != nil {
		p := *d.PracticeMCQ
		p.Options = append([]string(nil), d.PracticeMCQ.Options...)
		if d.PracticeMCQ.Frame != nil {
			f := *d.PracticeMCQ.Frame
			p.Frame = &f
		}
		if d.PracticeMCQ.Video != nil {
			v := *d.PracticeMCQ.Video
			p.Video = &v
		}
		out.PracticeMCQ = &p
	}
	return out
}

func (m Metadata) clone() Metadata {
	out := m
	out.AudioGenerated = cloneBool(m.AudioGenerated)
	out.FramesGenerated = cloneBool(m.FramesGenerated)
	out.VideosGenerated = cloneBool(m.VideosGenerated)
	out.AudioFiles = cloneStrings(m.AudioFiles)
	out.FrameFiles = cloneStrings(m.FrameFiles)
	out.VideoFiles = cloneStrings(m.VideoFiles)
	return out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
