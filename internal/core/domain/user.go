package domain

import (
	"errors"
	"time"
)

const (
	RoleRegular = "REGULAR"
	RoleAdmin   = "ADMIN"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("email is already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models a registered account. The password digest is only ever read by
// the auth service and the persistence layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the reduced identity projection that authorization decisions
// operate on. It is what the identity cache stores, keyed by user id.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
