package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-tracker/internal/domain"
	"task-tracker/internal/feature/task"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	m := task.FromDomain(t)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return domain.Task{}, err
	}
	return m.ToDomain(), nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (*domain.Task, error) {
	var m task.TaskModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := m.ToDomain()
	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	q := r.db.WithContext(ctx).Model(&task.TaskModel{})
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.Topic != nil {
		q = q.Where("topic = ?", *f.Topic)
	}
	if f.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *f.AssigneeID)
	}
	if s := f.Search; s != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(s))+"%")
	}

	var ms []task.TaskModel
	if err := q.Order("created_at DESC").Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *TaskRepo) Update(ctx context.Context, id int64, mutate func(cur domain.Task) (domain.Task, error)) (domain.Task, error) {
	var out domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m task.TaskModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTaskNotFound
		}
		if err != nil {
			return err
		}

		next, err := mutate(m.ToDomain())
		if err != nil {
			return err
		}
		next.ID, next.CreatedAt = m.ID, m.CreatedAt

		// map form so nil pointers are written as NULL
		res := tx.Model(&task.TaskModel{}).Where("id = ?", id).Updates(map[string]any{
			"title":       next.Title,
			"description": next.Description,
			"status":      string(next.Status),
			"topic":       next.Topic,
			"assignee_id": next.AssigneeID,
			"updated_at":  next.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrTaskNotFound
		}
		out = next
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	return out, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&task.TaskModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
