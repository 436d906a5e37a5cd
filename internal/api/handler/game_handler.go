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

type GameHandler struct {
	games *service.GameService
	mw    *middleware.Auth
	log   *slog.Logger
}

func NewGameHandler(games *service.GameService, mw *middleware.Auth, log *slog.Logger) *GameHandler {
	return &GameHandler{games: games, mw: mw, log: log}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.With(validation.ValidateQuery(validation.NewSchema[service.SearchQuery]())).Get("/search", h.search) // GET /api/games/search?query=
	r.With(validateCategoryID).Get("/category/{categoryId}", h.listByCategory)
	r.With(validateSlug).Get("/slug/{slug}", h.getBySlug)
	r.With(validateID).Get("/{id}", h.get)

	r.Group(func(admin chi.Router) {
		admin.Use(h.mw.Authenticate, h.mw.RequireAdmin)
		admin.With(validation.ValidateBody(validation.NewSchema[service.CreateGameRequest]())).Post("/admin", h.create)
		admin.With(validateID, validation.ValidateBody(validation.NewSchema[service.UpdateGameRequest]())).Patch("/admin/{id}", h.update)
		admin.With(validateID).Delete("/admin/{id}", h.delete)
	})
}

func (h *GameHandler) list(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, games)
}

func (h *GameHandler) search(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.Search(r.Context(), validation.Query[service.SearchQuery](r).Query)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, games)
}

func (h *GameHandler) listByCategory(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.ListByCategory(r.Context(), validation.Params[categoryIDParam](r).CategoryID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, games)
}

func (h *GameHandler) get(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.Get(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, game)
}

func (h *GameHandler) getBySlug(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.GetBySlug(r.Context(), validation.Params[slugParam](r).Slug)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, game)
}

func (h *GameHandler) create(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.Create(r.Context(), *validation.Body[service.CreateGameRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, game)
}

func (h *GameHandler) update(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.Update(r.Context(), pathID(r), *validation.Body[service.UpdateGameRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, game)
}

func (h *GameHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.games.Delete(r.Context(), pathID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Game deleted successfully")
}
