package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/remind/ctxutil"
	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/net/resp"
	"github.com/ncobase/remind/service"
)

// ReminderHandler handles the bulk reminder trigger.
type ReminderHandler struct {
	svc    *service.ReminderService
	logger *logger.Logger
}

// NewReminderHandler creates a new reminder handler.
func NewReminderHandler(svc *service.ReminderService, logger *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		svc:    svc,
		logger: logger,
	}
}

// Send runs one dispatch and reports the number of successful sends.
func (h *ReminderHandler) Send(c *gin.Context) {
	sent, err := h.svc.Dispatch(ctxutil.FromGinContext(c))
	if err != nil {
		h.logger.Error(ctxutil.FromGinContext(c), "failed to send reminders", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("Failed to send reminders"))
		return
	}
	resp.Success(c.Writer, map[string]int{"sent": sent})
}
