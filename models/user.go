package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole represents the single role assigned to a storefront user
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// String returns the canonical role name
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether r is one of the known roles
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseUserRole converts a role name into a UserRole.
// Matching is case-insensitive; an empty string is rejected.
func ParseUserRole(s string) (UserRole, error) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", fmt.Errorf("unknown user role: %q", s)
	}
	return role, nil
}

// User represents a registered storefront customer or administrator.
// Email is the login identifier.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	Address      string    `json:"address" db:"address"`
	Cellphone    string    `json:"cellphone" db:"cellphone"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"user_type" db:"user_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User instance. The password hash is set by the caller.
func NewUser(email, username string, role UserRole) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Username:  username,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
