package domain

import (
	"context"
	"time"
)

type TaskStatus string

const (
	StatusNew        TaskStatus = "new"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	Topic       *string    `json:"topic"`
	AssigneeID  *int64     `json:"assignee_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskFilter fields are conjunctive; nil means "no filter".
type TaskFilter struct {
	Status     *TaskStatus
	Topic      *string
	AssigneeID *int64
	Search     string
}

// TaskPatch carries a partial update. Only fields with Set == true are applied.
type TaskPatch struct {
	Title       Optional[string]     `json:"title"`
	Description Optional[string]     `json:"description"`
	Status      Optional[TaskStatus] `json:"status"`
	Topic       Optional[string]     `json:"topic"`
	AssigneeID  Optional[int64]      `json:"assignee_id"`
}

// Apply returns a copy of t with the present fields of p applied.
// Null clears nullable fields; callers validate title and status beforehand.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title.Set && !p.Title.Null {
		t.Title = p.Title.Value
	}
	if p.Status.Set && !p.Status.Null {
		t.Status = p.Status.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Ptr()
	}
	if p.Topic.Set {
		t.Topic = p.Topic.Ptr()
	}
	if p.AssigneeID.Set {
		t.AssigneeID = p.AssigneeID.Ptr()
	}
	return t
}

// TaskRepository is the storage seam for tasks. Get returns (nil, nil) when absent.
// Update runs mutate against the current row inside one transaction holding a row lock,
// and returns ErrTaskNotFound if the row is gone.
type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	Get(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, f TaskFilter) ([]Task, error)
	Update(ctx context.Context, id int64, mutate func(cur Task) (Task, error)) (Task, error)
	Delete(ctx context.Context, id int64) error
}
