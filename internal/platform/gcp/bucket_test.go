package gcp

import "testing"

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  MirrorConfig
		want string
	}{
		{
			name: "gcs default",
			cfg:  MirrorConfig{Bucket: "b", Mode: ObjectStorageModeGCS},
			want: "https://storage.googleapis.com/b/audio/x.mp3",
		},
		{
			name: "public base",
			cfg:  MirrorConfig{Bucket: "b", Prefix: "lessons", Mode: ObjectStorageModeGCS, PublicBaseURL: "https://cdn.example.com"},
			want: "https://cdn.example.com/b/lessons/audio/x.mp3",
		},
		{
			name: "emulator",
			cfg:  MirrorConfig{Bucket: "b", Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"},
			want: "http://fake-gcs:4443/storage/v1/b/b/o/audio%2Fx.mp3?alt=media",
		},
	}
	for _, tc := range cases {
		m := &bucketMirror{cfg: tc.cfg}
		if got := m.PublicURL("/audio/x.mp3"); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"audio/s_intro_narration.mp3":  "audio/mpeg",
		"frames/s_intro_narration.PNG": "image/png",
		"videos/s_intro_narration.mp4": "video/mp4",
		"scripts/s.json":               "application/json",
		"notes.txt":                    "",
	}
	for key, want := range cases {
		if got := contentTypeForKey(key); got != want {
			t.Fatalf("contentTypeForKey(%q): want=%q got=%q", key, want, got)
		}
	}
}
