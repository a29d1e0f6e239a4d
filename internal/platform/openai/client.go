package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/edugen-backend/internal/pkg/ctxutil"
	"github.com/yungbote/edugen-backend/internal/pkg/httpx"
	"github.com/yungbote/edugen-backend/internal/platform/envutil"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// Client is the slice of the OpenAI API the lesson pipeline talks to.
type Client interface {
	// GenerateJSONObject runs a chat completion constrained to a JSON object and
	// returns the raw message content.
	GenerateJSONObject(ctx context.Context, system string, user string) (string, error)

	// Speech synthesizes text with the given voice and returns the encoded audio.
	Speech(ctx context.Context, text string, voice string) ([]byte, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	TTSModel    string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
	RetryBase   time.Duration
}

// ConfigFromEnv reads OPENAI_* variables, filling in the defaults the lesson
// pipeline was tuned with.
func ConfigFromEnv() Config {
	return Config{
		APIKey:      envutil.String("OPENAI_API_KEY", ""),
		BaseURL:     envutil.String("OPENAI_BASE_URL", "https://api.openai.com"),
		Model:       envutil.String("OPENAI_MODEL", "gpt-4o-mini"),
		TTSModel:    envutil.String("OPENAI_TTS_MODEL", "tts-1"),
		Temperature: envutil.Float("OPENAI_TEMPERATURE", 0.7),
		MaxTokens:   envutil.Int("OPENAI_MAX_TOKENS", 2000),
		Timeout:     envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 120*time.Second),
		MaxRetries:  envutil.Int("OPENAI_MAX_RETRIES", 3),
	}
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.TTSModel == "" {
		cfg.TTSModel = "tts-1"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = time.Second
	}
	return &client{
		log:        log.With("service", "OpenAIClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}
	return resp, raw, nil
}

// do posts body to path, retrying transient failures with jittered backoff.
func (c *client) do(ctx context.Context, path string, body any) ([]byte, error) {
	ctx = ctxutil.Default(ctx)
	backoff := c.cfg.RetryBase
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			return raw, nil
		}
		if !httpx.IsRetryableError(err) || attempt >= c.cfg.MaxRetries || ctx.Err() != nil {
			return nil, err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

var ErrEmptyCompletion = errors.New("openai returned no completion choices")

func (c *client) GenerateJSONObject(ctx context.Context, system string, user string) (string, error) {
	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
	}
	start := time.Now()
	raw, err := c.do(ctx, "/v1/chat/completions", req)
	if err != nil {
		return "", err
	}
	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("openai decode error: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	c.log.Debug("OpenAI completion finished",
		"model", c.cfg.Model,
		"prompt_tokens", out.Usage.PromptTokens,
		"completion_tokens", out.Usage.CompletionTokens,
		"finish_reason", out.Choices[0].FinishReason,
		"elapsed", time.Since(start).String(),
	)
	return out.Choices[0].Message.Content, nil
}

// SpeechFormat is the only encoding requested from the speech endpoint. Audio
// artifacts are named and served as mp3.
const SpeechFormat = "mp3"

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format,omitempty"`
}

func (c *client) Speech(ctx context.Context, text string, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("speech input is empty")
	}
	raw, err := c.do(ctx, "/v1/audio/speech", speechRequest{
		Model:          c.cfg.TTSModel,
		Input:          text,
		Voice:          voice,
		ResponseFormat: SpeechFormat,
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("openai speech returned no audio")
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
