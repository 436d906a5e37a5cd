package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gamestore/internal/api/middleware"
	"gamestore/internal/app/service"
	"gamestore/internal/common"
)

type CartHandler struct {
	carts *service.CartService
	mw    *middleware.Auth
	log   *slog.Logger
}

func NewCartHandler(carts *service.CartService, mw *middleware.Auth, log *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, mw: mw, log: log}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.Get("/", h.get)
	r.Delete("/", h.clear)
	r.Post("/checkout", h.checkout)
	r.With(validateGameID).Post("/{gameId}", h.add)
	r.With(validateGameID).Delete("/{gameId}", h.remove)
	r.With(h.mw.RequireAdmin, validateUserID).Get("/admin/user/{userId}", h.getForUser)
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, currentUserID(r))
}

func (h *CartHandler) getForUser(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, pathUserID(r))
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, userID int64) {
	cart, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Add(r.Context(), currentUserID(r), pathGameID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Remove(r.Context(), currentUserID(r), pathGameID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), currentUserID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Cart cleared")
}

func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	resp, err := h.carts.Checkout(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
