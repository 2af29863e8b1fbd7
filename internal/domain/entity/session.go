package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionInfo is the public view of a live refresh-token record.
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
