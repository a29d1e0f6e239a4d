package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	scriptrepo "github.com/yungbote/edugen-backend/internal/data/repos/script"
	types "github.com/yungbote/edugen-backend/internal/domain"
	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/pkg/ctxutil"
	"github.com/yungbote/edugen-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/edugen-backend/internal/pkg/errors"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// ScriptService is the database backed script store. Reads and deletes are
// owner checked.
type ScriptService interface {
	Save(ctx context.Context, ownerID uuid.UUID, scriptID string, doc *lesson.Document) (string, error)
	Load(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (*types.Script, *lesson.Document, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Script, error)
	Delete(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) error
}

type scriptService struct {
	log  *logger.Logger
	repo scriptrepo.ScriptRepo
}

func NewScriptService(log *logger.Logger, repo scriptrepo.ScriptRepo) ScriptService {
	return &scriptService{log: log.With("service", "ScriptService"), repo: repo}
}

func (s *scriptService) Save(ctx context.Context, ownerID uuid.UUID, scriptID string, doc *lesson.Document) (string, error) {
	if ownerID == uuid.Nil {
		return "", fmt.Errorf("%w: owner required", apperr.ErrInvalidArgument)
	}
	if doc == nil {
		return "", fmt.Errorf("%w: document required", apperr.ErrInvalidArgument)
	}
	content, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	topic := doc.Metadata.Topic
	title := strings.TrimSpace(topic)
	if title == "" {
		title = doc.Title()
	}
	row := &types.Script{
		ScriptKey: scriptID,
		OwnerID:   ownerID,
		Title:     title,
		Topic:     topic,
		Content:   datatypes.JSON(content),
	}
	if _, err := s.repo.Create(dbctx.Background(ctx), []*types.Script{row}); err != nil {
		return "", fmt.Errorf("insert script: %w", err)
	}
	s.log.Info("Script saved", "id", row.ID.String(), "script_key", scriptID, "owner_id", ownerID.String())
	return row.ID.String(), nil
}

func (s *scriptService) Load(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (*types.Script, *lesson.Document, error) {
	row, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}
	var doc lesson.Document
	if err := json.Unmarshal(row.Content, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode script %s: %w", id, err)
	}
	return row, &doc, nil
}

func (s *scriptService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Script, error) {
	return s.repo.ListByOwner(dbctx.Background(ctx), ownerID)
}

func (s *scriptService) Delete(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteByIDs(dbctx.Background(ctx), []uuid.UUID{id}); err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	s.log.Info("Script deleted", "id", id.String(), "owner_id", ownerID.String())
	return nil
}

func (s *scriptService) owned(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (*types.Script, error) {
	row, err := s.repo.GetByID(dbctx.Background(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	if row == nil {
		return nil, apperr.ErrNotFound
	}
	if row.OwnerID != ownerID {
		return nil, apperr.ErrForbidden
	}
	return row, nil
}

// OwnerFromContext returns the authenticated caller or ErrUnauthorized.
func OwnerFromContext(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return id, nil
}
