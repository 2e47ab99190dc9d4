package service

import (
	"context"
	"fmt"
	"time"

	"task-tracker/internal/domain"
)

type TaskInput struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description *string           `json:"description"`
	Status      domain.TaskStatus `json:"status" validate:"omitempty,oneof=new in_progress done blocked"`
	Topic       *string           `json:"topic" validate:"omitempty,max=100"`
	AssigneeID  *int64            `json:"assignee_id"`
}

type TaskService struct {
	tasks domain.TaskRepository
	users domain.UserRepository
	now   func() time.Time
}

func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository) *TaskService {
	return &TaskService{tasks: tasks, users: users, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (domain.Task, error) {
	if err := validateStruct(in); err != nil {
		return domain.Task{}, err
	}
	if in.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *in.AssigneeID); err != nil {
			return domain.Task{}, err
		}
	}
	status := in.Status
	if status == "" {
		status = domain.StatusNew
	}
	now := s.clock()
	t, err := s.tasks.Create(ctx, domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Topic:       in.Topic,
		AssigneeID:  in.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (domain.Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	if t == nil {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return *t, nil
}

func (s *TaskService) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, domain.Invalid("status", "unknown status "+string(*f.Status))
	}
	ts, err := s.tasks.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return ts, nil
}

// Update applies the present fields of p. The task is checked before the assignee so a
// missing task always reports ErrTaskNotFound.
func (s *TaskService) Update(ctx context.Context, id int64, p domain.TaskPatch) (domain.Task, error) {
	if err := validatePatch(p); err != nil {
		return domain.Task{}, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return domain.Task{}, err
	}
	if p.AssigneeID.Set && !p.AssigneeID.Null {
		if err := s.checkAssignee(ctx, p.AssigneeID.Value); err != nil {
			return domain.Task{}, err
		}
	}

	t, err := s.tasks.Update(ctx, id, func(cur domain.Task) (domain.Task, error) {
		next := p.Apply(cur)
		next.UpdatedAt = s.advance(cur.UpdatedAt)
		return next, nil
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (domain.Task, error) {
	return s.Update(ctx, id, domain.TaskPatch{Status: domain.Some(status)})
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func (s *TaskService) checkAssignee(ctx context.Context, id int64) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup assignee %d: %w", id, err)
	}
	if u == nil {
		return domain.ErrAssigneeNotFound
	}
	return nil
}

// clock is millisecond precision, the coarsest of the supported databases.
func (s *TaskService) clock() time.Time { return s.now().UTC().Truncate(time.Millisecond) }

// advance returns a timestamp strictly after prev.
func (s *TaskService) advance(prev time.Time) time.Time {
	now := s.clock()
	if !now.After(prev) {
		now = prev.Truncate(time.Millisecond).Add(time.Millisecond)
	}
	return now
}

func validatePatch(p domain.TaskPatch) error {
	if p.Title.Set {
		if p.Title.Null {
			return domain.Invalid("title", "must not be null")
		}
		if err := checkLen("title", p.Title.Value, 1, 200); err != nil {
			return err
		}
	}
	if p.Status.Set {
		if p.Status.Null {
			return domain.Invalid("status", "must not be null")
		}
		if !p.Status.Value.Valid() {
			return domain.Invalid("status", "unknown status "+string(p.Status.Value))
		}
	}
	if p.Topic.Set && !p.Topic.Null {
		if err := checkLen("topic", p.Topic.Value, 0, 100); err != nil {
			return err
		}
	}
	return nil
}
