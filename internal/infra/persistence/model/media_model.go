package model

import (
	"time"

	"github.com/google/uuid"
)

// MediaModel mirrors the 'media' table.
type MediaModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	PostID    *uuid.UUID `gorm:"type:uuid;index"`
	Path      string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	MimeType  string     `gorm:"type:varchar(100);not null"`
	SizeBytes int64      `gorm:"not null"`
	Width     *int
	Height    *int
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (MediaModel) TableName() string {
	return "media"
}
