package repository

import (
	"context"
	"time"

	"miniblog/internal/domain/entity"
	"miniblog/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrRefreshTokenNotFound is returned when no record matches the token identifier.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenAlreadyRevoked is returned by a conditional revoke that matched no live record.
	ErrRefreshTokenAlreadyRevoked = errors.New("refresh token already revoked")
)

// RefreshTokenRepository persists refresh token records.
// Records are only ever created or revoked; nothing in the application deletes them.
type RefreshTokenRepository interface {
	// Create persists a new refresh token record.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByTokenID retrieves a record by the jti embedded in the signed token.
	FindByTokenID(ctx context.Context, tokenID uuid.UUID) (*entity.RefreshToken, error)

	// RevokeIfActive sets revokedAt only when it is still null.
	// It returns ErrRefreshTokenAlreadyRevoked when no live record was updated,
	// and ErrRefreshTokenNotFound when the record does not exist at all.
	RevokeIfActive(ctx context.Context, tokenID uuid.UUID, revokedAt time.Time) error

	// RevokeAllByUserID revokes every unrevoked record of the user and returns how many changed.
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID, revokedAt time.Time) (int64, error)

	// FindActiveByUserID lists unrevoked, unexpired records of the user, newest first.
	FindActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.RefreshToken, error)
}
