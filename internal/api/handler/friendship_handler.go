package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gamestore/internal/api/middleware"
	"gamestore/internal/api/validation"
	"gamestore/internal/app/service"
	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type FriendshipHandler struct {
	friendships *service.FriendshipService
	mw          *middleware.Auth
	log         *slog.Logger
}

func NewFriendshipHandler(friendships *service.FriendshipService, mw *middleware.Auth, log *slog.Logger) *FriendshipHandler {
	return &FriendshipHandler{friendships: friendships, mw: mw, log: log}
}

func (h *FriendshipHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.Get("/", h.listWith(h.friendships.Friends))
	r.Get("/pending", h.listWith(h.friendships.Pending))
	r.Get("/sent", h.listWith(h.friendships.Sent))
	r.Get("/blocked", h.listWith(h.friendships.Blocked))
	r.With(validation.ValidateBody(validation.NewSchema[service.FriendRequest]())).Post("/request", h.request)
	r.With(validateID, validation.ValidateBody(validation.NewSchema[service.FriendshipStatusRequest]())).Put("/{id}/status", h.updateStatus)
	r.With(validateID).Delete("/{id}", h.delete)
}

func (h *FriendshipHandler) listWith(list func(ctx context.Context, userID int64) ([]model.Friendship, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		friendships, err := list(r.Context(), currentUserID(r))
		if err != nil {
			respondError(w, r, h.log, err)
			return
		}
		respondList(w, friendships)
	}
}

func (h *FriendshipHandler) request(w http.ResponseWriter, r *http.Request) {
	friendship, err := h.friendships.Request(r.Context(), currentUserID(r), *validation.Body[service.FriendRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, friendship)
}

func (h *FriendshipHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	friendship, err := h.friendships.UpdateStatus(r.Context(), pathID(r), currentUserID(r), *validation.Body[service.FriendshipStatusRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, friendship)
}

func (h *FriendshipHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.friendships.Delete(r.Context(), pathID(r), currentUserID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Friendship removed")
}
