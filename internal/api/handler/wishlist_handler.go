package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gamestore/internal/api/middleware"
	"gamestore/internal/app/service"
	"gamestore/internal/common"
)

type WishlistHandler struct {
	wishlists *service.WishlistService
	mw        *middleware.Auth
	log       *slog.Logger
}

func NewWishlistHandler(wishlists *service.WishlistService, mw *middleware.Auth, log *slog.Logger) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists, mw: mw, log: log}
}

func (h *WishlistHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.Get("/", h.list)
	r.With(validateGameID).Post("/{gameId}", h.add)
	r.With(validateGameID).Delete("/{gameId}", h.remove)
	r.With(h.mw.RequireAdmin, validateUserID).Get("/admin/user/{userId}", h.listForUser)
}

func (h *WishlistHandler) list(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, currentUserID(r))
}

func (h *WishlistHandler) listForUser(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, pathUserID(r))
}

func (h *WishlistHandler) respondList(w http.ResponseWriter, r *http.Request, userID int64) {
	entries, err := h.wishlists.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, entries)
}

func (h *WishlistHandler) add(w http.ResponseWriter, r *http.Request) {
	entry, err := h.wishlists.Add(r.Context(), currentUserID(r), pathGameID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, entry)
}

func (h *WishlistHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlists.Remove(r.Context(), currentUserID(r), pathGameID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Game removed from wishlist")
}
