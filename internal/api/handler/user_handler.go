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

type UserHandler struct {
	users *service.UserService
	mw    *middleware.Auth
	log   *slog.Logger
}

func NewUserHandler(users *service.UserService, mw *middleware.Auth, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, mw: mw, log: log}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.With(validateID).Get("/{id}", h.get)

	r.Group(func(authed chi.Router) {
		authed.Use(h.mw.Authenticate)
		authed.Get("/profile/me", h.me)
		authed.With(validateUsername).Get("/profile/{username}", h.getByUsername)
		authed.With(validation.ValidateBody(validation.NewSchema[service.UpdateProfileRequest]())).Patch("/profile/me", h.updateMe)
		authed.Delete("/profile/me", h.deleteMe)
	})

	r.Group(func(admin chi.Router) {
		admin.Use(h.mw.Authenticate, h.mw.RequireAdmin)
		admin.With(validation.ValidateBody(validation.NewSchema[service.AdminCreateUserRequest]())).Post("/admin", h.adminCreate)
		admin.With(validateID, validation.ValidateBody(validation.NewSchema[service.AdminUpdateUserRequest]())).Patch("/admin/{id}", h.adminUpdate)
		admin.With(validateID).Delete("/admin/{id}", h.adminDelete)
		admin.With(validateID).Patch("/admin/{id}/toggle-admin", h.toggleAdmin)
	})
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondList(w, users)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) getByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByUsername(r.Context(), validation.Params[usernameParam](r).Username)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) updateMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.UpdateProfile(r.Context(), currentUserID(r), *validation.Body[service.UpdateProfileRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) deleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), currentUserID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "User deleted successfully")
}

func (h *UserHandler) adminCreate(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.AdminCreate(r.Context(), *validation.Body[service.AdminCreateUserRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) adminUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.AdminUpdate(r.Context(), pathID(r), *validation.Body[service.AdminUpdateUserRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) adminDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), pathID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "User deleted successfully")
}

func (h *UserHandler) toggleAdmin(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.ToggleAdmin(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}
