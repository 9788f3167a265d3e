package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"taskdeck/internal/calendar"
	"taskdeck/internal/model"
	"taskdeck/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string `validate:"required"`
	Description string
	Due         string // raw date input, parsed via the clock
	At          string // raw time input
	Tags        []string
	Project     string
	Priority    int `validate:"min=0,max=2"`
}

// TaskPatch carries optional field edits; nil means leave unchanged.
// An empty Due or At clears the field.
type TaskPatch struct {
	Title       *string
	Description *string
	Due         *string
	At          *string
	Tags        *[]string
	Project     *string
	Priority    *int
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	clock    *calendar.Clock
	validate *validator.Validate
}

func NewTaskService(taskRepo *repository.TaskRepository, clock *calendar.Clock) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		clock:    clock,
		validate: validator.New(),
	}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	if input.At != "" && input.Due == "" {
		return nil, fmt.Errorf("invalid task: a due time requires a due date")
	}

	task := model.Task{
		Title:       input.Title,
		Description: input.Description,
		Project:     input.Project,
		Priority:    input.Priority,
		Placement:   model.PlacementInbox,
	}
	task.SetTagList(input.Tags)

	if input.Due != "" {
		date, err := s.clock.ParseDate(input.Due)
		if err != nil {
			return nil, err
		}
		task.DueDate = &date
		task.Placement = model.PlacementDated
	}
	if input.At != "" {
		hhmm, err := calendar.ParseTime(input.At)
		if err != nil {
			return nil, err
		}
		task.DueTime = &hhmm
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

// EditTask applies a patch. Clearing the due date moves the task to the
// inbox placement; setting one always moves it to dated.
func (s *TaskService) EditTask(ctx context.Context, id uint, patch TaskPatch) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil || task == nil {
		return task, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, fmt.Errorf("invalid task: title must not be empty")
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Project != nil {
		task.Project = *patch.Project
	}
	if patch.Priority != nil {
		if *patch.Priority < model.PriorityNormal || *patch.Priority > model.PriorityUrgent {
			return nil, fmt.Errorf("invalid task: priority out of range")
		}
		task.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		task.SetTagList(*patch.Tags)
	}
	if patch.Due != nil {
		if *patch.Due == "" {
			task.DueDate = nil
			task.DueTime = nil
			task.Placement = model.PlacementInbox
		} else {
			date, err := s.clock.ParseDate(*patch.Due)
			if err != nil {
				return nil, err
			}
			task.DueDate = &date
			task.Placement = model.PlacementDated
		}
	}
	if patch.At != nil {
		if *patch.At == "" {
			task.DueTime = nil
		} else {
			hhmm, err := calendar.ParseTime(*patch.At)
			if err != nil {
				return nil, err
			}
			task.DueTime = &hhmm
		}
	}
	if task.DueDate == nil && task.DueTime != nil {
		return nil, fmt.Errorf("invalid task: a due time requires a due date")
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTask closes a task. Returns nil when the id is unknown.
func (s *TaskService) CompleteTask(ctx context.Context, id uint, completedAt time.Time) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil || task == nil {
		return task, err
	}
	if err := s.taskRepo.MarkCompleted(ctx, task, completedAt); err != nil {
		return nil, err
	}
	return task, nil
}

// ReopenTask clears a task's completion timestamp.
func (s *TaskService) ReopenTask(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil || task == nil {
		return task, err
	}
	if err := s.taskRepo.Reopen(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task. Skipping a generated occurrence is the same
// operation; the caller's intent differs, the storage effect does not.
func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	return s.taskRepo.Delete(ctx, id)
}

// MoveToSoon places the task in the soon bucket, dropping any due date.
func (s *TaskService) MoveToSoon(ctx context.Context, id uint) (*model.Task, error) {
	return s.move(ctx, id, model.PlacementSoon)
}

// MoveToSomeday places the task in the someday bucket, dropping any due date.
func (s *TaskService) MoveToSomeday(ctx context.Context, id uint) (*model.Task, error) {
	return s.move(ctx, id, model.PlacementSomeday)
}

// MoveToInbox returns the task to the inbox, dropping any due date.
func (s *TaskService) MoveToInbox(ctx context.Context, id uint) (*model.Task, error) {
	return s.move(ctx, id, model.PlacementInbox)
}

func (s *TaskService) move(ctx context.Context, id uint, placement string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil || task == nil {
		return task, err
	}
	task.Placement = placement
	task.DueDate = nil
	task.DueTime = nil
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ScheduleTask gives the task a due date (and optional time), moving it
// to the dated placement.
func (s *TaskService) ScheduleTask(ctx context.Context, id uint, due, at string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil || task == nil {
		return task, err
	}
	date, err := s.clock.ParseDate(due)
	if err != nil {
		return nil, err
	}
	task.DueDate = &date
	task.Placement = model.PlacementDated
	if at != "" {
		hhmm, err := calendar.ParseTime(at)
		if err != nil {
			return nil, err
		}
		task.DueTime = &hhmm
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
