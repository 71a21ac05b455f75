package handler

import (
	"net/http"

	"chefly/internal/reminders"
	httputil "chefly/pkg/http"
	"chefly/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const actorHeader = "X-User-Id"

type ReminderHandler struct {
	scheduler *reminders.Scheduler
	log       *logger.Logger
}

func NewReminderHandler(scheduler *reminders.Scheduler, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		scheduler: scheduler,
		log:       log,
	}
}

func (h *ReminderHandler) Upcoming(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.Header.Get(actorHeader)
	role := r.URL.Query().Get("role")

	events, err := h.scheduler.UpcomingForUser(r.Context(), userID, role)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Upcoming", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, events); err != nil {
		h.log.Error("failed to write success response", "handler", "Upcoming", "operation", "WriteSuccess", "error", err)
	}
}

// TriggerScan runs one scan synchronously. Operational escape hatch.
func (h *ReminderHandler) TriggerScan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.scheduler.Scan(r.Context())
	httputil.WriteNoContent(w)
}

func (h *ReminderHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reminders/upcoming", h.Upcoming)
	router.POST("/api/v1/reminders/scan", h.TriggerScan)
}
