package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, srv *httptest.Server) Client {
	t.Helper()
	c, err := NewClient(logger.Nop(), Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxRetries: 2,
		RetryBase:  time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); err == nil {
		t.Fatalf("want error for missing api key")
	}
}

func TestGenerateJSONObjectSendsJSONMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path: want=/v1/chat/completions got=%s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header: got=%q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format: got=%+v", req.ResponseFormat)
		}
		if req.Model != "gpt-4o-mini" || req.MaxTokens != 2000 {
			t.Errorf("defaults: model=%q max_tokens=%d", req.Model, req.MaxTokens)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "draft fractions" {
			t.Errorf("messages: got=%+v", req.Messages)
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"{\"intro\":{}}"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv).GenerateJSONObject(context.Background(), "sys", "draft fractions")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != `{"intro":{}}` {
		t.Fatalf("content: got=%q", got)
	}
}

func TestSpeechRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var req speechRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "tts-1" || req.Voice != "nova" || req.ResponseFormat != SpeechFormat {
			t.Errorf("speech request: got=%+v", req)
		}
		_, _ = w.Write([]byte("ID3audio"))
	}))
	defer srv.Close()

	audio, err := newTestClient(t, srv).Speech(context.Background(), "Hello there", "nova")
	if err != nil {
		t.Fatalf("speech: %v", err)
	}
	if string(audio) != "ID3audio" {
		t.Fatalf("audio: got=%q", audio)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("calls: want=2 got=%d", n)
	}
}

func TestSpeechDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"bad voice"}}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv).Speech(context.Background(), "Hello", "nova"); err == nil {
		t.Fatalf("want error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls: want=1 got=%d", n)
	}
}
