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

type ReviewHandler struct {
	reviews *service.ReviewService
	mw      *middleware.Auth
	log     *slog.Logger
}

func NewReviewHandler(reviews *service.ReviewService, mw *middleware.Auth, log *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, mw: mw, log: log}
}

func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.With(validateGameID).Get("/game/{gameId}", h.listByGame)
	r.With(validateGameID).Get("/game/{gameId}/rating", h.rating)
	r.With(validateID).Get("/{id}", h.get)

	r.Group(func(authed chi.Router) {
		authed.Use(h.mw.Authenticate)
		authed.Get("/user/me", h.listMine)
		authed.With(validation.ValidateBody(validation.NewSchema[service.CreateReviewRequest]())).Post("/", h.create)
		authed.With(validateID, validation.ValidateBody(validation.NewSchema[service.UpdateReviewRequest]())).Patch("/{id}", h.update)
		authed.With(validateID).Delete("/{id}", h.delete)
		authed.With(h.mw.RequireAdmin, validateUserID).Get("/admin/user/{userId}", h.listForUser)
	})
}

func (h *ReviewHandler) list(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, reviews)
}

func (h *ReviewHandler) get(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.Get(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) listByGame(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByGame(r.Context(), pathGameID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, reviews)
}

func (h *ReviewHandler) rating(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reviews.Rating(r.Context(), pathGameID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, summary)
}

func (h *ReviewHandler) listMine(w http.ResponseWriter, r *http.Request) {
	h.respondUserReviews(w, r, currentUserID(r))
}

func (h *ReviewHandler) listForUser(w http.ResponseWriter, r *http.Request) {
	h.respondUserReviews(w, r, pathUserID(r))
}

func (h *ReviewHandler) respondUserReviews(w http.ResponseWriter, r *http.Request, userID int64) {
	reviews, err := h.reviews.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, reviews)
}

func (h *ReviewHandler) create(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.Create(r.Context(), currentUserID(r), *validation.Body[service.CreateReviewRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) update(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.Update(r.Context(), pathID(r), currentUserID(r), *validation.Body[service.UpdateReviewRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.Delete(r.Context(), pathID(r), currentUserID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Review deleted successfully")
}
