package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/edugen-backend/internal/domain"
	"github.com/yungbote/edugen-backend/internal/pkg/dbctx"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByUsernames(dbc dbctx.Context, usernames []string) ([]*types.User, error)
	UsernameOrEmailExists(dbc dbctx.Context, username, email string) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.DB(ur.db).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByUsernames(dbc dbctx.Context, usernames []string) ([]*types.User, error) {
	var results []*types.User
	if len(usernames) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).
		Where("username IN ?", usernames).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UsernameOrEmailExists(dbc dbctx.Context, username, email string) (bool, error) {
	var count int64
	if err := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
