package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted record of one issued refresh token.
// Records are never deleted; RevokedAt is set at most once and never cleared.
type RefreshToken struct {
	ID          uuid.UUID  // Primary key of the record.
	TokenID     uuid.UUID  // Random identifier embedded as the token's jti claim, used as the lookup key.
	UserID      uuid.UUID  // Owner of the session.
	TokenDigest string     // SHA-256 hex digest of the full signed token string.
	ExpiresAt   time.Time  // Absolute expiry instant.
	RevokedAt   *time.Time // Set when the token is rotated or logged out.
	CreatedAt   time.Time
}

// IsRevoked reports whether the record has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired reports whether the record is expired at the given instant.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// IsActive reports whether the record can still be exchanged at the given instant.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}
