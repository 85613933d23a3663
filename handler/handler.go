// Package handler provides the HTTP handlers of the task API.
package handler

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/wire"
	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/net/resp"
	"github.com/ncobase/remind/service"
	vd "github.com/ncobase/remind/validator"
)

// ProviderSet is the wire provider set for the handler package.
var ProviderSet = wire.NewSet(NewHandler)

var registerOnce sync.Once

// Handler aggregates all HTTP handlers.
type Handler struct {
	Task     *TaskHandler
	Reminder *ReminderHandler
	logger   *logger.Logger
}

// NewHandler creates a new handler instance with all sub-handlers initialized.
func NewHandler(svc *service.Service, logger *logger.Logger) *Handler {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			vd.RegisterJSONTagNames(v)
		}
	})
	return &Handler{
		Task:     NewTaskHandler(svc.Task, logger),
		Reminder: NewReminderHandler(svc.Reminder, logger),
		logger:   logger,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	tasks := r.Group("/tasks")
	{
		tasks.POST("", h.Task.Create)
		tasks.GET("", h.Task.List)
		tasks.GET("/status/:status", h.Task.ListByStatus)
		tasks.GET("/reminders/upcoming", h.Task.Upcoming)
		tasks.GET("/:id", h.Task.Get)
		tasks.PUT("/:id/edit", h.Task.Update)
		tasks.DELETE("/:id", h.Task.Delete)
		tasks.PUT("/:id/complete", h.Task.Complete)
		tasks.PUT("/:id/step/:stepIndex/complete", h.Task.CompleteStep)
	}

	api := r.Group("/api")
	{
		api.POST("/reminders/send", h.Reminder.Send)
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	resp.Success(c.Writer, map[string]string{"status": "healthy"})
}
