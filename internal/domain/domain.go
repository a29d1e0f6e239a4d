package domain

import (
	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/domain/user"
)

type (
	User   = user.User
	Script = lesson.Script

	Document = lesson.Document
	Metadata = lesson.Metadata
)

// Models lists every gorm model in migration order.
func Models() []any {
	return []any{
		&User{},
		&Script{},
	}
}
