package app

import (
	"gorm.io/gorm"

	scriptrepo "github.com/yungbote/edugen-backend/internal/data/repos/script"
	userrepo "github.com/yungbote/edugen-backend/internal/data/repos/user"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

type Repos struct {
	User   userrepo.UserRepo
	Script scriptrepo.ScriptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:   userrepo.NewUserRepo(db, log),
		Script: scriptrepo.NewScriptRepo(db, log),
	}
}
