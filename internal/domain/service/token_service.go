package service

import (
	"time"

	"miniblog/internal/domain/entity"
	"miniblog/internal/errors"

	"github.com/google/uuid"
)

// ErrTokenInvalid is returned for any token that fails signature, expiry or claim checks.
var ErrTokenInvalid = errors.New("token is invalid")

// RefreshClaims are the verified claims of a refresh token.
type RefreshClaims struct {
	UserID    uuid.UUID // sub
	TokenID   uuid.UUID // jti, the record lookup key
	ExpiresAt time.Time
}

// IssuedRefreshToken is a freshly signed refresh token and the values its record must carry.
type IssuedRefreshToken struct {
	Token     string
	TokenID   uuid.UUID
	Digest    string
	ExpiresAt time.Time
}

// TokenService signs and verifies access and refresh tokens.
// Access and refresh tokens are signed with distinct secrets.
type TokenService interface {
	// IssueAccessToken signs a short-lived token embedding {sub, email, role}.
	IssueAccessToken(identity entity.Identity) (string, error)

	// IssueRefreshToken signs a long-lived token embedding {sub, jti} with a new random jti.
	IssueRefreshToken(userID uuid.UUID) (*IssuedRefreshToken, error)

	// VerifyAccessToken checks signature and expiry under the access secret.
	VerifyAccessToken(token string) (*entity.Identity, error)

	// ParseRefreshToken checks signature and expiry under the refresh secret.
	ParseRefreshToken(token string) (*RefreshClaims, error)

	// HashToken returns the one-way digest stored in place of the raw refresh token.
	HashToken(token string) string

	// RefreshTokenTTL returns the configured refresh token lifetime.
	RefreshTokenTTL() time.Duration
}
