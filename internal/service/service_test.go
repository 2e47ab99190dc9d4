package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-tracker/internal/core/auth"
	"task-tracker/internal/domain"
	"task-tracker/internal/repo"
	"task-tracker/internal/testutil"
)

type fixture struct {
	db    *gorm.DB
	users *UserService
	tasks *TaskService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewSQLite(t)
	userRepo := repo.NewUserRepo(db)
	creds := &auth.Credentials{Cost: bcrypt.MinCost, TTL: time.Hour}
	users, err := NewUserService(userRepo, creds, nil)
	require.NoError(t, err)
	return fixture{
		db:    db,
		users: users,
		tasks: NewTaskService(repo.NewTaskRepo(db), userRepo),
	}
}

func ptr[T any](v T) *T { return &v }

func (f fixture) register(t *testing.T, username string) domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{Username: username, FullName: "Test " + username, Password: "secret1"})
	require.NoError(t, err)
	return u
}
