package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ncobase/remind/concurrency/worker"
	"github.com/ncobase/remind/config"
	"github.com/ncobase/remind/ctxutil"
	"github.com/ncobase/remind/data/repository"
	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/messaging/email"
	"github.com/ncobase/remind/reminder"
)

// ReminderService sends reminder emails for due tasks.
type ReminderService struct {
	repo     repository.TaskRepository
	sender   email.Sender
	pool     *worker.Pool
	renderer *reminder.Renderer
	window   time.Duration
	timeout  time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

// NewReminderService creates a reminder service. A nil pool sends inline.
func NewReminderService(
	repo repository.TaskRepository,
	sender email.Sender,
	pool *worker.Pool,
	cfg *config.Reminder,
	logger *logger.Logger,
) *ReminderService {
	s := &ReminderService{
		repo:     repo,
		sender:   sender,
		pool:     pool,
		renderer: reminder.NewRenderer("", ""),
		window:   30 * 24 * time.Hour,
		timeout:  ctxutil.DefaultAsyncTimeout,
		logger:   logger,
		now:      time.Now,
	}
	if cfg != nil {
		s.renderer = reminder.NewRenderer(cfg.LinkBase, cfg.Subject)
		if cfg.WindowDays > 0 {
			s.window = cfg.Window()
		}
		if cfg.SendTimeout > 0 {
			s.timeout = cfg.SendTimeout
		}
	}
	return s
}

// Dispatch emails every recipient of every task due a reminder now and
// returns the number of successful sends. Each send is independent: a
// failure is logged and the remaining sends continue. Only a failure to
// enumerate tasks is returned.
func (s *ReminderService) Dispatch(ctx context.Context) (int, error) {
	now := s.now().UTC()
	until := now.Add(s.window)
	incomplete := false

	tasks, err := s.repo.Find(ctx, repository.Filter{Completed: &incomplete, DueFrom: &now, DueUntil: &until})
	if err != nil {
		return 0, fmt.Errorf("failed to load tasks for reminders: %w", err)
	}

	due := reminder.ListDue(tasks, now)
	s.logger.Info(ctx, "dispatching reminders", "candidates", len(tasks), "due", len(due))

	var (
		wg   sync.WaitGroup
		sent atomic.Int64
	)
	for _, task := range due {
		msg, err := s.renderer.Render(task)
		if err != nil {
			s.logger.Error(ctx, "failed to render reminder", "task_id", task.ID.Hex(), "error", err)
			continue
		}
		for _, to := range task.Recipients {
			wg.Add(1)
			unit := s.sendUnit(ctx, &wg, &sent, task, to, msg)
			if s.pool == nil || s.pool.Submit(unit) != nil {
				_ = unit()
			}
		}
	}
	wg.Wait()

	n := int(sent.Load())
	fields := []any{"sent", n}
	if s.pool != nil {
		m := s.pool.GetMetrics()
		fields = append(fields, "pool_completed", m["completed_tasks"], "pool_failed", m["failed_tasks"], "pool_pending", m["pending_tasks"])
	}
	s.logger.Info(ctx, append([]any{"reminders dispatched"}, fields...)...)
	return n, nil
}

// sendUnit builds one failure-isolated send. The returned func always
// releases wg exactly once.
func (s *ReminderService) sendUnit(
	ctx context.Context,
	wg *sync.WaitGroup,
	sent *atomic.Int64,
	task *repository.Task,
	to string,
	msg *reminder.Message,
) func() error {
	return func() (err error) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("send panicked: %v", r)
				s.logger.Error(ctx, "reminder send panicked", "task_id", task.ID.Hex(), "recipient", to, "error", err)
			}
		}()

		sctx, cancel := ctxutil.WithAsyncContext(ctx, s.timeout)
		defer cancel()

		d, err := s.sender.Send(sctx, to, msg.Subject, msg.HTML)
		if err != nil {
			s.logger.Error(ctx, "failed to send reminder", "task_id", task.ID.Hex(), "recipient", to, "error", err)
			return err
		}
		if d != nil && d.StatusCode != 0 && (d.StatusCode < 200 || d.StatusCode >= 300) {
			err = fmt.Errorf("unexpected delivery status %d", d.StatusCode)
			s.logger.Error(ctx, "failed to send reminder", "task_id", task.ID.Hex(), "recipient", to, "error", err)
			return err
		}

		sent.Add(1)
		s.logger.Info(ctx, "reminder sent", "task_id", task.ID.Hex(), "recipient", to)
		return nil
	}
}
