package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/remind/data/repository"
	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/logging/logger/config"
	"github.com/ncobase/remind/messaging/email"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memRepo is an in-memory TaskRepository keeping insertion order.
type memRepo struct {
	mu      sync.Mutex
	order   []string
	tasks   map[string]*repository.Task
	finds   int
	updates int
	findErr error
	// beforeUpdate runs against the stored task ahead of each update
	beforeUpdate func(t *repository.Task)
}

func newMemRepo(tasks ...*repository.Task) *memRepo {
	r := &memRepo{tasks: map[string]*repository.Task{}}
	for _, t := range tasks {
		if t.ID.IsZero() {
			t.ID = primitive.NewObjectID()
		}
		r.order = append(r.order, t.ID.Hex())
		r.tasks[t.ID.Hex()] = t
	}
	return r
}

func clone(t *repository.Task) *repository.Task {
	c := *t
	c.Steps = append([]repository.Step{}, t.Steps...)
	c.Recipients = append([]string{}, t.Recipients...)
	c.ReminderSchedule = append([]int{}, t.ReminderSchedule...)
	return &c
}

func (r *memRepo) Create(_ context.Context, t *repository.Task) (*repository.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.order = append(r.order, t.ID.Hex())
	r.tasks[t.ID.Hex()] = clone(t)
	return clone(t), nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*repository.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(t), nil
}

func (r *memRepo) Find(_ context.Context, f repository.Filter) ([]*repository.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]*repository.Task, 0)
	for _, id := range r.order {
		if t, ok := r.tasks[id]; ok && f.Matches(t) {
			out = append(out, clone(t))
		}
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, id string, p *repository.TaskPatch) (*repository.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(t)
	}
	if !p.StepsExist(t) {
		return nil, repository.ErrStepNotFound
	}
	r.updates++
	p.Apply(t, time.Now())
	return clone(t), nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

// fakeSender records sends and fails for the configured recipients.
type fakeSender struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]error
	status map[string]int
}

func (s *fakeSender) Send(ctx context.Context, to, subject, html string) (*email.Delivery, error) {
	s.mu.Lock()
	s.calls = append(s.calls, to)
	s.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("send context has no deadline")
	}
	if err := s.fail[to]; err != nil {
		return nil, err
	}
	if code, ok := s.status[to]; ok {
		return &email.Delivery{StatusCode: code}, nil
	}
	return &email.Delivery{ID: "ok", StatusCode: 202}, nil
}

func (s *fakeSender) sentTo() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := map[string]int{}
	for _, c := range s.calls {
		m[c]++
	}
	return m
}

func quietLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, cleanup, err := logger.NewLogger(config.Default())
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(cleanup)
	l.SetOutput(io.Discard)
	return l
}
