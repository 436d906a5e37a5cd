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

var validateCategoryBody = validation.ValidateBody(validation.NewSchema[service.CategoryRequest]())

type CategoryHandler struct {
	categories *service.CategoryService
	mw         *middleware.Auth
	log        *slog.Logger
}

func NewCategoryHandler(categories *service.CategoryService, mw *middleware.Auth, log *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, mw: mw, log: log}
}

func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.With(validateID).Get("/{id}", h.get)

	r.Group(func(admin chi.Router) {
		admin.Use(h.mw.Authenticate, h.mw.RequireAdmin)
		admin.With(validateCategoryBody).Post("/admin", h.create)
		admin.With(validateID, validateCategoryBody).Patch("/admin/{id}", h.update)
		admin.With(validateID).Delete("/admin/{id}", h.delete)
		admin.With(validateCategoryGame).Post("/admin/{id}/game/{gameId}", h.addGame)
		admin.With(validateCategoryGame).Delete("/admin/{id}/game/{gameId}", h.removeGame)
	})
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, categories)
}

func (h *CategoryHandler) get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Get(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Create(r.Context(), *validation.Body[service.CategoryRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) update(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Update(r.Context(), pathID(r), *validation.Body[service.CategoryRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), pathID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Category deleted successfully")
}

func (h *CategoryHandler) addGame(w http.ResponseWriter, r *http.Request) {
	p := validation.Params[categoryGameParams](r)
	if err := h.categories.AddGame(r.Context(), p.ID, p.GameID); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, common.MessageResponse{Message: "Game added to category"})
}

func (h *CategoryHandler) removeGame(w http.ResponseWriter, r *http.Request) {
	p := validation.Params[categoryGameParams](r)
	if err := h.categories.RemoveGame(r.Context(), p.ID, p.GameID); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Game removed from category")
}
