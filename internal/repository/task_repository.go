package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskdeck/internal/model"
)

// TaskRepository handles CRUD for task occurrences.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// CreateFromTemplate inserts a generated occurrence, tolerating a racing
// insert for the same (template, date) key. The unique index makes the
// existence check and insert atomic; reports whether a row was written.
func (r *TaskRepository) CreateFromTemplate(ctx context.Context, task *model.Task) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "template_id"}, {Name: "due_date"}},
		DoNothing: true,
	}).Create(task)
	if res.Error != nil {
		return false, fmt.Errorf("create occurrence: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindByID returns nil without error when the task does not exist.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// ListActive returns every task without a completion timestamp.
func (r *TaskRepository) ListActive(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("completed_at IS NULL").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	return tasks, nil
}

// ListCompleted returns closed tasks, most recently completed first.
func (r *TaskRepository) ListCompleted(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("completed_at IS NOT NULL").
		Order("completed_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, task *model.Task, completedAt time.Time) error {
	task.CompletedAt = &completedAt
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Reopen(ctx context.Context, task *model.Task) error {
	task.CompletedAt = nil
	if err := r.db.WithContext(ctx).Model(task).Update("completed_at", nil).Error; err != nil {
		return fmt.Errorf("reopen task: %w", err)
	}
	return nil
}

// Delete removes a task. Skipping a generated occurrence is the same
// operation with different caller intent.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, id).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Counts returns total, active, and completed tallies in one pass.
func (r *TaskRepository) Counts(ctx context.Context) (total, active, completed int64, err error) {
	db := r.db.WithContext(ctx).Model(&model.Task{})
	if err = db.Count(&total).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count tasks: %w", err)
	}
	if err = r.db.WithContext(ctx).Model(&model.Task{}).
		Where("completed_at IS NULL").Count(&active).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count active tasks: %w", err)
	}
	return total, active, total - active, nil
}
