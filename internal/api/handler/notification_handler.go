package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gamestore/internal/api/middleware"
	"gamestore/internal/api/validation"
	"gamestore/internal/app/service"
	"gamestore/internal/common"
)

var validatePageQuery = validation.ValidateQuery(validation.NewSchema[service.PageQuery]())

type NotificationHandler struct {
	notifications *service.NotificationService
	mw            *middleware.Auth
	log           *slog.Logger
}

func NewNotificationHandler(notifications *service.NotificationService, mw *middleware.Auth, log *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, mw: mw, log: log}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.With(validatePageQuery).Get("/", h.list(false))
	r.With(validatePageQuery).Get("/unread", h.list(true))
	r.Get("/unread/count", h.countUnread)
	r.Patch("/read-all", h.markAllRead)
	r.With(validateID).Patch("/{id}/read", h.markRead)
	r.With(validateID).Delete("/{id}", h.delete)
	r.Delete("/", h.deleteAll)
	r.With(h.mw.RequireAdmin, validation.ValidateBody(validation.NewSchema[service.BroadcastRequest]())).Post("/admin/broadcast", h.broadcast)
}

func (h *NotificationHandler) list(unreadOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.notifications.List(r.Context(), currentUserID(r), unreadOnly, *validation.Query[service.PageQuery](r))
		if err != nil {
			respondError(w, r, h.log, err)
			return
		}
		common.RespondWithJSON(w, http.StatusOK, resp)
	}
}

func (h *NotificationHandler) countUnread(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.CountUnread(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkRead(r.Context(), pathID(r), currentUserID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Notification marked as read")
}

func (h *NotificationHandler) markAllRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.notifications.MarkAllRead(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]any{"message": "All notifications marked as read", "count": updated})
}

func (h *NotificationHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.Delete(r.Context(), pathID(r), currentUserID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Notification deleted")
}

func (h *NotificationHandler) deleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.notifications.DeleteAll(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]any{"message": "All notifications deleted", "count": deleted})
}

func (h *NotificationHandler) broadcast(w http.ResponseWriter, r *http.Request) {
	sent, err := h.notifications.Broadcast(r.Context(), *validation.Body[service.BroadcastRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]any{"message": "Notifications sent", "count": sent})
}
