package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a registered account. The password is stored only as an
// opaque bcrypt hash and is never compared in plaintext.
type User struct {
	ID             int64
	Email          string
	Username       string
	FirstName      string
	LastName       string
	HashedPassword string
	IsActive       bool
	CreatedAt      time.Time
}
