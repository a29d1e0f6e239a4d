package steps

import "github.com/yungbote/edugen-backend/internal/domain/lesson"

// MergeAudio records audio artifacts on doc, joining on the artifact key.
func MergeAudio(doc *lesson.Document, arts []lesson.Artifact, voice string) {
	for _, a := range arts {
		doc.SetAudio(a.Key, a.Filename)
	}
	doc.Metadata.AudioGenerated = lesson.Bool(len(arts) > 0)
	doc.Metadata.VoiceUsed = voice
	doc.Metadata.AudioFiles = lesson.Filenames(arts)
}

// MergeFrames records frame artifacts on doc.
func MergeFrames(doc *lesson.Document, arts []lesson.Artifact) {
	for _, a := range arts {
		doc.SetFrame(a.Key, a.Filename)
	}
	doc.Metadata.FramesGenerated = lesson.Bool(len(arts) > 0)
	doc.Metadata.FrameFiles = lesson.Filenames(arts)
}

// MergeVideos records video artifacts on doc.
func MergeVideos(doc *lesson.Document, arts []lesson.Artifact) {
	for _, a := range arts {
		doc.SetVideo(a.Key, a.Filename)
	}
	doc.Metadata.VideosGenerated = lesson.Bool(len(arts) > 0)
	doc.Metadata.VideoFiles = lesson.Filenames(arts)
}

// MarkVideosDisabled records that no video stage ran.
func MarkVideosDisabled(doc *lesson.Document) {
	doc.Metadata.VideosGenerated = lesson.Bool(false)
	doc.Metadata.VideoFiles = nil
}
