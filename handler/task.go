package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/remind/ctxutil"
	"github.com/ncobase/remind/ecode"
	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/net/resp"
	"github.com/ncobase/remind/service"
	vd "github.com/ncobase/remind/validator"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	svc    *service.TaskService
	logger *logger.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(svc *service.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles task creation.
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	task, err := h.svc.CreateTask(ctxutil.FromGinContext(c), &req)
	if err != nil {
		h.fail(c, err, "create task")
		return
	}

	resp.Success(c.Writer, task)
}

// List handles listing all tasks.
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.svc.ListTasks(ctxutil.FromGinContext(c))
	if err != nil {
		h.fail(c, err, "list tasks")
		return
	}
	resp.Success(c.Writer, tasks)
}

// Get handles task retrieval.
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.svc.GetTask(ctxutil.FromGinContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "get task")
		return
	}
	resp.Success(c.Writer, task)
}

// ListByStatus handles filtering by pending, overdue or completed.
func (h *TaskHandler) ListByStatus(c *gin.Context) {
	tasks, err := h.svc.ListByStatus(ctxutil.FromGinContext(c), c.Param("status"))
	if err != nil {
		h.fail(c, err, "list tasks")
		return
	}
	resp.Success(c.Writer, tasks)
}

// Update handles partial task updates.
func (h *TaskHandler) Update(c *gin.Context) {
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	task, err := h.svc.UpdateTask(ctxutil.FromGinContext(c), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err, "update task")
		return
	}
	resp.Success(c.Writer, task)
}

// Delete handles task deletion.
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteTask(ctxutil.FromGinContext(c), c.Param("id")); err != nil {
		h.fail(c, err, "delete task")
		return
	}
	resp.Success(c.Writer, map[string]bool{"success": true})
}

// Complete handles completing a task and all of its steps.
func (h *TaskHandler) Complete(c *gin.Context) {
	task, err := h.svc.CompleteTask(ctxutil.FromGinContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "complete task")
		return
	}
	resp.Success(c.Writer, task)
}

// CompleteStep handles completing a single step by index.
func (h *TaskHandler) CompleteStep(c *gin.Context) {
	task, err := h.svc.CompleteStep(ctxutil.FromGinContext(c), c.Param("id"), c.Param("stepIndex"))
	if err != nil {
		h.fail(c, err, "complete step")
		return
	}
	resp.Success(c.Writer, task)
}

// Upcoming handles listing tasks due a reminder today.
func (h *TaskHandler) Upcoming(c *gin.Context) {
	tasks, err := h.svc.UpcomingReminders(ctxutil.FromGinContext(c))
	if err != nil {
		h.fail(c, err, "list upcoming reminders")
		return
	}
	resp.Success(c.Writer, tasks)
}

func (h *TaskHandler) badRequest(c *gin.Context, err error) {
	h.logger.Warn(ctxutil.FromGinContext(c), "invalid request", "error", err)
	if fields := vd.Messages(err); fields != nil {
		resp.Fail(c.Writer, resp.BadRequest(ecode.Text(ecode.ParamErr), fields))
		return
	}
	resp.Fail(c.Writer, resp.BadRequest("Invalid request body"))
}

// fail maps service errors to responses. Unknown errors are logged and
// reported as a generic server error.
func (h *TaskHandler) fail(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		resp.Fail(c.Writer, resp.NotFound(ecode.NotFoundMsg("Task")))
	case errors.Is(err, service.ErrStepNotFound):
		resp.Fail(c.Writer, resp.NotFound(ecode.NotFoundMsg("Step")))
	case errors.Is(err, service.ErrInvalidStatus):
		resp.Fail(c.Writer, resp.BadRequest("Invalid status"))
	case errors.Is(err, service.ErrCompletedRevert):
		resp.Fail(c.Writer, resp.BadRequest("Completed task cannot be reopened"))
	default:
		h.logger.Error(ctxutil.FromGinContext(c), "failed to "+op, "id", c.Param("id"), "error", err)
		resp.Fail(c.Writer, resp.InternalServer("Failed to "+op))
	}
}
