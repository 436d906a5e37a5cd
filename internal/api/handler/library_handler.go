package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gamestore/internal/api/middleware"
	"gamestore/internal/app/service"
	"gamestore/internal/common"
)

type LibraryHandler struct {
	library *service.LibraryService
	mw      *middleware.Auth
	log     *slog.Logger
}

func NewLibraryHandler(library *service.LibraryService, mw *middleware.Auth, log *slog.Logger) *LibraryHandler {
	return &LibraryHandler{library: library, mw: mw, log: log}
}

func (h *LibraryHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.Get("/", h.list)
	r.With(validateGameID).Post("/add/game/{gameId}", h.add)
	r.With(validateGameID).Patch("/{gameId}/last-played", h.markPlayed)
	r.With(validateGameID).Get("/{gameId}/check", h.check)
	r.With(validateGameID).Delete("/{gameId}", h.remove)
	r.With(h.mw.RequireAdmin, validateUserID).Get("/admin/user/{userId}", h.listForUser)
}

func (h *LibraryHandler) list(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, currentUserID(r))
}

func (h *LibraryHandler) listForUser(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, pathUserID(r))
}

func (h *LibraryHandler) respondList(w http.ResponseWriter, r *http.Request, userID int64) {
	entries, err := h.library.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, entries)
}

func (h *LibraryHandler) add(w http.ResponseWriter, r *http.Request) {
	entry, err := h.library.Add(r.Context(), currentUserID(r), pathGameID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, entry)
}

func (h *LibraryHandler) markPlayed(w http.ResponseWriter, r *http.Request) {
	entry, err := h.library.MarkPlayed(r.Context(), currentUserID(r), pathGameID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entry)
}

func (h *LibraryHandler) check(w http.ResponseWriter, r *http.Request) {
	owned, err := h.library.Contains(r.Context(), currentUserID(r), pathGameID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"inLibrary": owned})
}

func (h *LibraryHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.library.Remove(r.Context(), currentUserID(r), pathGameID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Game removed from library")
}
