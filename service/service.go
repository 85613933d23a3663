// Package service contains the task and reminder business logic.
package service

import (
	"github.com/google/wire"
	"github.com/ncobase/remind/concurrency/worker"
	"github.com/ncobase/remind/config"
	"github.com/ncobase/remind/data/repository"
	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/messaging/email"
)

// ProviderSet is the wire provider set for the service package.
var ProviderSet = wire.NewSet(NewService, NewTaskService, NewReminderService)

// Service aggregates all business logic services.
type Service struct {
	Task     *TaskService
	Reminder *ReminderService
}

// NewService groups the task and reminder services.
func NewService(task *TaskService, rem *ReminderService) *Service {
	return &Service{
		Task:     task,
		Reminder: rem,
	}
}

// New builds a Service directly from its collaborators.
func New(
	repo repository.TaskRepository,
	sender email.Sender,
	pool *worker.Pool,
	cfg *config.Reminder,
	logger *logger.Logger,
) *Service {
	return NewService(
		NewTaskService(repo, logger),
		NewReminderService(repo, sender, pool, cfg, logger),
	)
}
