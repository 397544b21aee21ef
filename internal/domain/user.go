package domain

import (
	"context"
	"time"
)

// User represents an admin/staff account
type User struct {
	ID           string // UUID
	Email        string // Unique, stored lowercased
	PasswordHash string // Bcrypt hash, never returned in API responses
	FirstName    string
	LastName     string
	Role         string // admin or user
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate carries a partial update; nil fields are left untouched
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Role      *string
	IsActive  *bool
}

// UserRepository defines data access for users
type UserRepository interface {
	// Create inserts the user; duplicate email yields a ConflictError
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page, limit int) ([]*User, int, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	UpdateLastLogin(ctx context.Context, id string) error
	// Deactivate soft-deletes the user by clearing is_active
	Deactivate(ctx context.Context, id string) error
}
