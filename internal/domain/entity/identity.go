package entity

import "github.com/google/uuid"

// Identity is the authenticated caller of a request.
// It is produced once by access-token verification and passed explicitly to downstream logic.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}
