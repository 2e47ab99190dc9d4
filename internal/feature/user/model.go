package user

import (
	"time"

	"task-tracker/internal/domain"
)

type UserModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Username       string `gorm:"uniqueIndex;size:50;not null"`
	FullName       string `gorm:"size:100;not null"`
	HashedPassword string `gorm:"size:255;not null"`
	Token          string `gorm:"uniqueIndex;size:255;not null"`
	TokenExpiresAt *time.Time
	CreatedAt      time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) ToDomain() domain.User {
	return domain.User{
		ID:             m.ID,
		Username:       m.Username,
		FullName:       m.FullName,
		PasswordDigest: m.HashedPassword,
		Token:          m.Token,
		TokenExpiresAt: m.TokenExpiresAt,
		CreatedAt:      m.CreatedAt,
	}
}

func FromDomain(u domain.User) UserModel {
	return UserModel{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		HashedPassword: u.PasswordDigest,
		Token:          u.Token,
		TokenExpiresAt: u.TokenExpiresAt,
		CreatedAt:      u.CreatedAt,
	}
}
