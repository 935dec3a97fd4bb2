package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
	ContentTypeCode  = "code"
)

type GeneratedContent struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	ContentType string            `gorm:"size:16;not null" json:"content_type"`
	Prompt      string            `gorm:"type:text;not null" json:"prompt"`
	Content     string            `gorm:"type:text" json:"content"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
}
