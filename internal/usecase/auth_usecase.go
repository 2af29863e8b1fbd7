// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"miniblog/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new identity.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// UserOutput is the public view of an identity. The password digest never leaves the service.
type UserOutput struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Role        entity.Role `json:"role"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// NewUserOutput strips private fields from a user entity.
func NewUserOutput(user *entity.User) *UserOutput {
	return &UserOutput{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
}

// TokenPair is a freshly issued access token and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	TokenPair
	User *UserOutput
}

// AuthUsecase is the session/token manager: it issues, verifies, rotates and revokes credential pairs.
// Token transport (cookies, headers) is the caller's concern.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*UserOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Refresh validates the presented refresh token, rotates it and returns a new pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the record behind the presented token. It never fails; an empty token is a no-op.
	Logout(ctx context.Context, refreshToken string)

	// LogoutAll revokes every live session of the identity and returns how many were revoked.
	LogoutAll(ctx context.Context, identity entity.Identity) (int64, error)

	// ListSessions returns the live sessions of the identity, newest first.
	ListSessions(ctx context.Context, identity entity.Identity) ([]entity.SessionInfo, error)

	// VerifyAccessToken is a stateless signature and expiry check.
	VerifyAccessToken(accessToken string) (*entity.Identity, error)

	IssueAccessToken(identity entity.Identity) (string, error)
}
