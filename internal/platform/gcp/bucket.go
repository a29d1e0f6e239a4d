package gcp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

const uploadTimeout = 2 * time.Minute

// ArtifactMirror copies local lesson media into a GCS bucket.
type ArtifactMirror interface {
	MirrorFile(ctx context.Context, key string, localPath string) error
	PublicURL(key string) string
	Close() error
}

type bucketMirror struct {
	log    *logger.Logger
	client *storage.Client
	cfg    MirrorConfig
}

func NewArtifactMirror(ctx context.Context, log *logger.Logger, cfg MirrorConfig) (ArtifactMirror, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("artifact mirror: bucket not configured")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	if cfg.IsEmulatorMode() {
		// the storage client only honours the emulator through this variable
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
	}
	opts := append(cfg.clientOptions(), option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog := log.With("service", "ArtifactMirror")
	serviceLog.Info("Object storage initialized",
		"mode", string(cfg.Mode),
		"bucket", cfg.Bucket,
		"prefix", cfg.Prefix,
		"emulator_host", cfg.EmulatorHost,
	)
	return &bucketMirror{log: serviceLog, client: client, cfg: cfg}, nil
}

func (m *bucketMirror) MirrorFile(ctx context.Context, key string, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	objectKey := m.objectKey(key)
	w := m.client.Bucket(m.cfg.Bucket).Object(objectKey).NewWriter(ctx)
	if ct := contentTypeForKey(objectKey); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	m.log.Debug("Artifact uploaded", "key", objectKey)
	return nil
}

func (m *bucketMirror) objectKey(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if m.cfg.Prefix == "" {
		return key
	}
	return path.Join(m.cfg.Prefix, key)
}

func (m *bucketMirror) PublicURL(key string) string {
	objectKey := m.objectKey(key)
	if m.cfg.IsEmulatorMode() {
		base := m.cfg.PublicBaseURL
		if base == "" {
			base = m.cfg.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(m.cfg.Bucket), url.PathEscape(objectKey))
	}
	if m.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", m.cfg.PublicBaseURL, m.cfg.Bucket, objectKey)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", m.cfg.Bucket, objectKey)
}

func (m *bucketMirror) Close() error {
	if m.client == nil {
		return nil
	}
	return m.client.Close()
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".mp4"):
		return "video/mp4"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	default:
		return ""
	}
}
