package script

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/edugen-backend/internal/domain"
	"github.com/yungbote/edugen-backend/internal/pkg/dbctx"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

type ScriptRepo interface {
	Create(dbc dbctx.Context, scripts []*types.Script) ([]*types.Script, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Script, error)
	ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.Script, error)
	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type scriptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScriptRepo(db *gorm.DB, baseLog *logger.Logger) ScriptRepo {
	return &scriptRepo{db: db, log: baseLog.With("repo", "ScriptRepo")}
}

func (r *scriptRepo) Create(dbc dbctx.Context, scripts []*types.Script) ([]*types.Script, error) {
	if len(scripts) == 0 {
		return []*types.Script{}, nil
	}
	if err := dbc.DB(r.db).Create(&scripts).Error; err != nil {
		return nil, err
	}
	return scripts, nil
}

// GetByID returns nil, nil when no live row matches.
func (r *scriptRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Script, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var s types.Script
	err := dbc.DB(r.db).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByOwner returns the owner's scripts, newest first.
func (r *scriptRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.Script, error) {
	var out []*types.Script
	if ownerID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scriptRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.Script{}).Error
}
