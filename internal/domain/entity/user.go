// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can sign in and author posts.
// PasswordHash never leaves the session manager and is never serialized.
type User struct {
	ID           uuid.UUID // Immutable unique identifier.
	Email        string    // Unique login identifier, compared exactly as stored.
	PasswordHash string    // bcrypt digest of the account password.
	DisplayName  string    // Public name shown next to published posts.
	Role         Role      // Authorization role carried in access tokens.
	CreatedAt    time.Time // Timestamp of registration.
	UpdatedAt    time.Time // Timestamp of the last modification.
}

// Identity returns the claims subset of the user that is safe to embed in an access token.
func (u *User) Identity() Identity {
	return Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}
}
