package domain

import (
	"context"
	"time"
)

// User represents a registered user of the assistant.
// PasswordHash holds a bcrypt hash, never the plaintext password.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository is the credential store.
type UserRepository interface {
	// Create persists a new user and assigns its ID. It returns
	// ErrDuplicateUsername when the username is already taken; the
	// uniqueness check and the insert are a single atomic operation.
	Create(ctx context.Context, user *User) error

	// FindByUsername returns the user with exactly this username, or
	// nil and no error when there is none.
	FindByUsername(ctx context.Context, username string) (*User, error)
}
