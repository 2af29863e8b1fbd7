package model

import (
	"time"

	"github.com/google/uuid"
)

// PostModel mirrors the 'posts' table.
type PostModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	AuthorID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"type:varchar(120);not null"`
	Content     string    `gorm:"type:text;not null"`
	Status      string    `gorm:"type:varchar(16);not null"`
	Slug        *string   `gorm:"type:varchar(200);uniqueIndex"`
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (PostModel) TableName() string {
	return "posts"
}

// PostWithAuthorModel is the read shape of a post joined with its author's display name.
type PostWithAuthorModel struct {
	PostModel  `gorm:"embedded"`
	AuthorName string
}
