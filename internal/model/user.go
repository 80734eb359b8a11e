package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the requester record resolved from an authenticated session.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Phone     string    `json:"phone" db:"phone"`
	BayArea   bool      `json:"bayArea" db:"bay_area"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Identity is what the session provider vouches for.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// RoleAdmin grants access to the admin surface.
const RoleAdmin = "admin"

// IsAdmin reports whether the identity may use admin endpoints.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
