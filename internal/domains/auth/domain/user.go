package domain

import (
	"errors"
	"strings"
)

// Role gates admin-only operations.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var (
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrInvalidRole  = errors.New("role is invalid")
)

// User is a staff member or registered customer. Password handling lives
// behind the Authenticator port; this entity never carries credentials.
type User struct {
	ID    int64
	Name  string
	Email string
	Role  Role
}

// NewUser builds a user ensuring required invariants.
func NewUser(id int64, name, email string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	switch role {
	case RoleAdmin, RoleUser:
	default:
		return nil, ErrInvalidRole
	}
	return &User{ID: id, Name: name, Email: email, Role: role}, nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
