package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel mirrors the 'refresh_tokens' table.
// Rows are looked up by jti and revoked by setting revoked_at; they are never deleted by the application.
type RefreshTokenModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TokenID     uuid.UUID  `gorm:"column:jti;type:uuid;uniqueIndex;not null"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	TokenDigest string     `gorm:"type:char(64);not null"`
	ExpiresAt   time.Time  `gorm:"not null"`
	RevokedAt   *time.Time `gorm:"index"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
