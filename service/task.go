package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ncobase/remind/data/repository"
	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/reminder"
)

// Task status filters.
const (
	StatusPending   = "pending"
	StatusOverdue   = "overdue"
	StatusCompleted = "completed"
)

// TaskService handles task-related business logic.
type TaskService struct {
	repo   repository.TaskRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewTaskService creates a new task service.
func NewTaskService(repo repository.TaskRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateTaskRequest represents the request to create a task.
type CreateTaskRequest struct {
	Title            string            `json:"title" binding:"required"`
	Description      string            `json:"description"`
	DueDate          *time.Time        `json:"dueDate"`
	Completed        bool              `json:"completed"`
	Steps            []repository.Step `json:"steps"`
	Recipients       []string          `json:"recipients" binding:"omitempty,dive,email"`
	ReminderSchedule []int             `json:"reminderSchedule" binding:"omitempty,dive,gte=0"`
}

// UpdateTaskRequest represents a partial update. Absent fields are kept.
type UpdateTaskRequest struct {
	Title            *string            `json:"title" binding:"omitempty,min=1"`
	Description      *string            `json:"description"`
	DueDate          *time.Time         `json:"dueDate"`
	Completed        *bool              `json:"completed"`
	Steps            *[]repository.Step `json:"steps"`
	Recipients       *[]string          `json:"recipients" binding:"omitempty,dive,email"`
	ReminderSchedule *[]int             `json:"reminderSchedule" binding:"omitempty,dive,gte=0"`
}

// CreateTask creates a new task.
func (s *TaskService) CreateTask(ctx context.Context, req *CreateTaskRequest) (*repository.Task, error) {
	task := &repository.Task{
		Title:            req.Title,
		Description:      req.Description,
		DueDate:          req.DueDate,
		Completed:        req.Completed,
		Steps:            req.Steps,
		Recipients:       req.Recipients,
		ReminderSchedule: req.ReminderSchedule,
	}
	return s.repo.Create(ctx, task)
}

// GetTask retrieves a task by ID.
func (s *TaskService) GetTask(ctx context.Context, id string) (*repository.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return task, nil
}

// ListTasks retrieves all tasks.
func (s *TaskService) ListTasks(ctx context.Context) ([]*repository.Task, error) {
	return s.repo.Find(ctx, repository.Filter{})
}

// StatusFilter maps a status name to a store filter evaluated at now.
func StatusFilter(status string, now time.Time) (repository.Filter, error) {
	incomplete, complete := false, true
	switch status {
	case StatusPending:
		return repository.Filter{Completed: &incomplete, DueFrom: &now}, nil
	case StatusOverdue:
		return repository.Filter{Completed: &incomplete, DueBefore: &now}, nil
	case StatusCompleted:
		return repository.Filter{Completed: &complete}, nil
	default:
		return repository.Filter{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

// ListByStatus retrieves tasks by status. An unknown status fails before
// the store is queried.
func (s *TaskService) ListByStatus(ctx context.Context, status string) ([]*repository.Task, error) {
	filter, err := StatusFilter(status, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, filter)
}

// UpdateTask applies a partial update. Completion cannot be reverted.
func (s *TaskService) UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*repository.Task, error) {
	if req.Completed != nil && !*req.Completed {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err)
		}
		if current.Completed {
			return nil, ErrCompletedRevert
		}
	}

	task, err := s.repo.Update(ctx, id, &repository.TaskPatch{
		Title:            req.Title,
		Description:      req.Description,
		DueDate:          req.DueDate,
		Completed:        req.Completed,
		Steps:            req.Steps,
		Recipients:       req.Recipients,
		ReminderSchedule: req.ReminderSchedule,
	})
	if err != nil {
		return nil, notFound(err)
	}
	return task, nil
}

// DeleteTask deletes a task by ID.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return notFound(s.repo.Delete(ctx, id))
}

// CompleteTask marks the task and every one of its steps completed.
func (s *TaskService) CompleteTask(ctx context.Context, id string) (*repository.Task, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	steps := make([]repository.Step, len(current.Steps))
	for i, step := range current.Steps {
		steps[i] = repository.Step{Title: step.Title, Completed: true}
	}
	done := true

	task, err := s.repo.Update(ctx, id, &repository.TaskPatch{Completed: &done, Steps: &steps})
	if err != nil {
		return nil, notFound(err)
	}
	s.logger.Info(ctx, "task completed", "id", id, "steps", len(steps))
	return task, nil
}

// CompleteStep marks the step at stepIndex completed. The parent's
// completed flag is not touched and an out-of-range index leaves the task
// unmodified.
func (s *TaskService) CompleteStep(ctx context.Context, id, stepIndex string) (*repository.Task, error) {
	index, err := strconv.Atoi(stepIndex)
	if err != nil || index < 0 {
		return nil, ErrStepNotFound
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if index >= len(current.Steps) {
		return nil, ErrStepNotFound
	}

	task, err := s.repo.Update(ctx, id, &repository.TaskPatch{CompletedSteps: []int{index}})
	if err != nil {
		return nil, notFound(err)
	}
	return task, nil
}

// UpcomingReminders returns the incomplete tasks whose schedule matches today.
func (s *TaskService) UpcomingReminders(ctx context.Context) ([]*repository.Task, error) {
	incomplete := false
	tasks, err := s.repo.Find(ctx, repository.Filter{Completed: &incomplete})
	if err != nil {
		return nil, err
	}
	return reminder.ListDue(tasks, s.now()), nil
}

// notFound translates the repository miss into ErrTaskNotFound.
func notFound(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrTaskNotFound
	case errors.Is(err, repository.ErrStepNotFound):
		return ErrStepNotFound
	}
	return err
}
