package domain

import (
	"context"
	"time"
)

type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	FullName       string     `json:"full_name"`
	PasswordDigest string     `json:"-"`
	Token          string     `json:"-"`
	TokenExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TokenExpired reports whether the user's bearer token is past its expiry.
// A nil expiry never expires.
func (u User) TokenExpired(now time.Time) bool {
	return u.TokenExpiresAt != nil && !now.Before(*u.TokenExpiresAt)
}

// UserRepository returns (nil, nil) from the Find methods when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByToken(ctx context.Context, token string) (*User, error)
	UpdateToken(ctx context.Context, id int64, token string, expiresAt *time.Time) error
}
