package lesson

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Script is the persisted form of a finished lesson document.
type Script struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ScriptKey string         `gorm:"column:script_key;index;not null" json:"script_key"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;column:owner_id;index;not null" json:"owner_id"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Topic     string         `gorm:"column:topic;not null" json:"topic"`
	Content   datatypes.JSON `gorm:"column:content;not null" json:"content"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Script) TableName() string { return "script" }

func (s *Script) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
