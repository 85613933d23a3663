package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/remind/concurrency/worker"
	"github.com/ncobase/remind/config"
	"github.com/ncobase/remind/ctxutil"
	"github.com/ncobase/remind/data/repository"
	"github.com/ncobase/remind/handler"
	"github.com/ncobase/remind/logging/logger"
	lc "github.com/ncobase/remind/logging/logger/config"
	"github.com/ncobase/remind/messaging/email"
	"github.com/ncobase/remind/service"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	l, cleanup, err := logger.NewLogger(lc.Default())
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(cleanup)
	l.SetOutput(io.Discard)

	svc := service.New(nil, nil, nil, nil, l)
	a := NewApp(&config.Config{Environment: "test", Host: "127.0.0.1", Port: 0}, l, handler.NewHandler(svc, l))
	gin.SetMode(gin.TestMode)
	return a
}

func TestRouterHealth(t *testing.T) {
	r := newTestApp(t).Router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", w.Code)
	}
	if w.Header().Get(ctxutil.TraceIDHeader) == "" {
		t.Error("response should carry a trace id")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("response should allow any origin")
	}
}

func TestTraceIDPropagated(t *testing.T) {
	r := newTestApp(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(ctxutil.TraceIDHeader, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(ctxutil.TraceIDHeader); got != "trace-123" {
		t.Errorf("trace id = %q, want trace-123", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestApp(t).Router()

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS /tasks = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight should list allowed methods")
	}
}

func TestReloadAppliesLogLevel(t *testing.T) {
	a := newTestApp(t)
	a.reload(&config.Config{Logger: &lc.Config{Level: 5}})
	if got := a.logger.GetLevel(); got != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}
	a.reload(&config.Config{})
	if got := a.logger.GetLevel(); got != logrus.DebugLevel {
		t.Errorf("level = %v, want unchanged", got)
	}
}

// slowSender takes delay for every message
type slowSender struct{ delay time.Duration }

func (s slowSender) Send(ctx context.Context, _, _, _ string) (*email.Delivery, error) {
	select {
	case <-time.After(s.delay):
		return &email.Delivery{StatusCode: http.StatusAccepted}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// listRepo serves a fixed task list
type listRepo struct {
	repository.TaskRepository
	tasks []*repository.Task
}

func (r *listRepo) Find(_ context.Context, f repository.Filter) ([]*repository.Task, error) {
	out := make([]*repository.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func TestSlowDispatchResponseDelivered(t *testing.T) {
	l, cleanup, err := logger.NewLogger(lc.Default())
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(cleanup)
	l.SetOutput(io.Discard)

	cfg, err := config.LoadConfig(writeConfigFile(t, "server:\n  write_timeout: 200ms\nreminder:\n  send_timeout: 1s\n  workers: 1\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	cfg.Environment = "test"

	due := time.Now().Add(24 * time.Hour)
	repo := &listRepo{tasks: []*repository.Task{{
		ID:               primitive.NewObjectID(),
		Title:            "Taxes",
		DueDate:          &due,
		Recipients:       []string{"a@example.com", "b@example.com"},
		ReminderSchedule: []int{1},
	}}}
	pool := worker.NewPool(config.ProvideWorkerConfig(cfg.Reminder))
	pool.Start()
	t.Cleanup(func() { pool.Stop(context.Background()) })

	svc := service.New(repo, slowSender{delay: 300 * time.Millisecond}, pool, cfg.Reminder, l)
	a := NewApp(cfg, l, handler.NewHandler(svc, l))
	gin.SetMode(gin.TestMode)

	srv := a.newServer()
	if srv.WriteTimeout < 600*time.Millisecond {
		t.Fatalf("WriteTimeout = %v, want longer than the dispatch", srv.WriteTimeout)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Close() })

	res, err := http.Post("http://"+ln.Addr().String()+"/api/reminders/send", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/reminders/send error = %v", err)
	}
	defer res.Body.Close()

	var body map[string]int
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.StatusCode != http.StatusOK || body["sent"] != 2 {
		t.Errorf("POST /api/reminders/send = %d %v, want 200 {sent:2}", res.StatusCode, body)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return p
}
