package service

import "errors"

var (
	// ErrTaskNotFound is returned when no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrStepNotFound is returned for a step index outside the task's steps.
	ErrStepNotFound = errors.New("step not found")
	// ErrInvalidStatus is returned for a status filter other than
	// pending, overdue or completed.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrCompletedRevert is returned when an edit tries to reopen a completed task.
	ErrCompletedRevert = errors.New("completed task cannot be reopened")
)
