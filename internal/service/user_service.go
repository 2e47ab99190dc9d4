package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"task-tracker/internal/core/auth"
	"task-tracker/internal/domain"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// UserService is the user directory plus the per-request token gate.
type UserService struct {
	users domain.UserRepository
	creds *auth.Credentials
	log   *zap.Logger
	now   func() time.Time

	// compared against when the username is unknown, so both login failures cost one bcrypt run
	dummyDigest string
}

func NewUserService(users domain.UserRepository, creds *auth.Credentials, log *zap.Logger) (*UserService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dummy, err := creds.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	return &UserService{users: users, creds: creds, log: log, now: time.Now, dummyDigest: dummy}, nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := validateStruct(in); err != nil {
		return domain.User{}, err
	}
	existing, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return domain.User{}, domain.ErrDuplicateUsername
	}

	digest, err := s.creds.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	token, err := s.creds.IssueToken()
	if err != nil {
		return domain.User{}, err
	}
	now := s.now().UTC()
	u, err := s.users.Create(ctx, domain.User{
		Username:       in.Username,
		FullName:       in.FullName,
		PasswordDigest: digest,
		Token:          token,
		TokenExpiresAt: s.creds.ExpiresAt(now),
		CreatedAt:      now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Login replaces the stored token with a fresh one. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in LoginInput) (string, error) {
	if err := validateStruct(in); err != nil {
		return "", err
	}
	u, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return "", fmt.Errorf("lookup username: %w", err)
	}
	if u == nil {
		s.creds.Verify(in.Password, s.dummyDigest)
		return "", domain.ErrInvalidCredentials
	}
	if !s.creds.Verify(in.Password, u.PasswordDigest) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.creds.IssueToken()
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateToken(ctx, u.ID, token, s.creds.ExpiresAt(s.now().UTC())); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	u, err := s.users.FindByToken(ctx, token)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup token: %w", err)
	}
	if u == nil || u.TokenExpired(s.now()) {
		return domain.User{}, domain.ErrUnauthorized
	}
	return *u, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) FindByToken(ctx context.Context, token string) (*domain.User, error) {
	return s.users.FindByToken(ctx, token)
}
