package model

import "time"

const (
	ActivityChatTurn         = "chat.turn"
	ActivityFileIngested     = "file.ingested"
	ActivityFileDeleted      = "file.deleted"
	ActivityExportGenerated  = "export.generated"
	ActivityContentGenerated = "content.generated"
)

// Activity is an append-only audit row written by the activity worker.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Kind      string    `gorm:"size:32;not null;index" json:"kind"`
	SubjectID uint      `json:"subject_id"`
	Detail    string    `gorm:"size:512" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
