package models

import (
	"time"
)

// Role represents a user's role in the system
type Role string

const (
	RoleSuperAdmin Role = "Super Admin"
	RoleAdmin      Role = "Admin"
	RoleAgent      Role = "Agent"
)

// User represents an operator account; agents own the orders they create.
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Username  string    `db:"username" json:"username,omitempty"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address,omitempty"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	Role      Role      `db:"role" json:"role"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new user with the given hashed password.
func NewUser(name, email, hashedPassword string, role Role) *User {
	now := GetCurrentTime()

	return &User{
		ID:        GenerateID("usr"),
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsElevated reports whether the user may perform admin-only operations.
func (u *User) IsElevated() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsSuperAdmin reports whether the user holds the highest privilege level.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
