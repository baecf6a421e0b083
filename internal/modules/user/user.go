package user

import (
	"time"

	"github.com/google/uuid"
)

// Role decides which notes a user may address and read.
type Role string

const (
	RoleManager Role = "manager"
	RoleGov     Role = "gov"
)

// ParseRole maps arbitrary input onto a known role, defaulting to manager.
func ParseRole(s string) Role {
	if Role(s) == RoleGov {
		return RoleGov
	}
	return RoleManager
}

// User is an account in the hosted generation. The offline generation
// runs without accounts entirely.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
