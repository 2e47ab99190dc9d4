package task

import (
	"time"

	"task-tracker/internal/domain"
	"task-tracker/internal/feature/user"
)

type TaskModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:200;not null"`
	Description *string   `gorm:"type:text"`
	Status      string    `gorm:"size:16;not null;default:new"`
	Topic       *string   `gorm:"size:100;index"`
	AssigneeID  *int64    `gorm:"index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`

	Assignee *user.UserModel `gorm:"foreignKey:AssigneeID;constraint:OnDelete:RESTRICT"`
}

func (TaskModel) TableName() string { return "tasks" }

func (m TaskModel) ToDomain() domain.Task {
	return domain.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TaskStatus(m.Status),
		Topic:       m.Topic,
		AssigneeID:  m.AssigneeID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDomain(t domain.Task) TaskModel {
	return TaskModel{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Topic:       t.Topic,
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Models lists everything AutoMigrate needs, in dependency order.
func Models() []any { return []any{&user.UserModel{}, &TaskModel{}} }
