package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	apperr "github.com/yungbote/edugen-backend/internal/pkg/errors"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

const scriptsDir = "scripts"

// FileStore keeps documents as "{root}/scripts/{scriptID}.json". It is the
// store used by the command line runner, which has no owners.
type FileStore struct {
	log  *logger.Logger
	root string
}

func NewFileStore(log *logger.Logger, root string) *FileStore {
	return &FileStore{log: log.With("service", "FileStore"), root: root}
}

func (fs *FileStore) Path(scriptID string) string {
	return filepath.Join(fs.root, scriptsDir, scriptID+".json")
}

func (fs *FileStore) Save(ctx context.Context, ownerID uuid.UUID, scriptID string, doc *lesson.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if scriptID == "" || filepath.Base(scriptID) != scriptID {
		return "", fmt.Errorf("%w: bad script id %q", apperr.ErrInvalidArgument, scriptID)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	path := fs.Path(scriptID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create scripts dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write script: %w", err)
	}
	fs.log.Info("Script written", "path", path)
	return scriptID, nil
}

func (fs *FileStore) Load(scriptID string) (*lesson.Document, error) {
	b, err := os.ReadFile(fs.Path(scriptID))
	if os.IsNotExist(err) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc lesson.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode script %s: %w", scriptID, err)
	}
	return &doc, nil
}

func (fs *FileStore) Delete(scriptID string) error {
	err := os.Remove(fs.Path(scriptID))
	if os.IsNotExist(err) {
		return apperr.ErrNotFound
	}
	return err
}
