package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValueRedactsSecrets(t *testing.T) {
	cases := map[string]interface{}{
		"api_key":        "whatever",
		"jwt_secret_key": "abc",
		"password":       "hunter2",
		"Authorization":  "Bearer x",
	}
	for key, val := range cases {
		got := sanitizeValue(strings.ToLower(key), val)
		if got != "[REDACTED]" {
			t.Fatalf("%s: want redacted got=%v", key, got)
		}
	}
}

func TestSanitizeValueHashesOwner(t *testing.T) {
	got, ok := sanitizeValue("owner_id", "6b8f1a3e").(string)
	if !ok || len(got) != len("hash:")+12 {
		t.Fatalf("owner_id: want hashed value got=%v", got)
	}
	if again := sanitizeValue("owner_id", "6b8f1a3e"); again != got {
		t.Fatalf("owner_id hash not stable: %v vs %v", got, again)
	}
}

func TestSanitizeValueKeepsPlainFields(t *testing.T) {
	if got := sanitizeValue("unit", "intro_narration"); got != "intro_narration" {
		t.Fatalf("unit: want passthrough got=%v", got)
	}
	if got := sanitizeValue("error", "sk-abcdefghijklmnopqrstuvwxyz"); got != "[REDACTED]" {
		t.Fatalf("api key in value: want redacted got=%v", got)
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"unit", "summary_narration", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("odd kv: got=%v", out)
	}
}
