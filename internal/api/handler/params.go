package handler

import (
	"log/slog"
	"net/http"

	"gamestore/internal/api/middleware"
	"gamestore/internal/api/validation"
	"gamestore/internal/common"
)

type idParam struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

type gameIDParam struct {
	GameID int64 `param:"gameId" validate:"required,gt=0"`
}

type userIDParam struct {
	UserID int64 `param:"userId" validate:"required,gt=0"`
}

type categoryIDParam struct {
	CategoryID int64 `param:"categoryId" validate:"required,gt=0"`
}

type categoryGameParams struct {
	ID     int64 `param:"id" validate:"required,gt=0"`
	GameID int64 `param:"gameId" validate:"required,gt=0"`
}

type tokenParam struct {
	Token string `param:"token" validate:"required"`
}

type usernameParam struct {
	Username string `param:"username" validate:"required,max=16"`
}

type slugParam struct {
	Slug string `param:"slug" validate:"required,max=255"`
}

var (
	validateID           = validation.ValidateParams(validation.NewSchema[idParam]())
	validateGameID       = validation.ValidateParams(validation.NewSchema[gameIDParam]())
	validateUserID       = validation.ValidateParams(validation.NewSchema[userIDParam]())
	validateCategoryID   = validation.ValidateParams(validation.NewSchema[categoryIDParam]())
	validateCategoryGame = validation.ValidateParams(validation.NewSchema[categoryGameParams]())
	validateToken        = validation.ValidateParams(validation.NewSchema[tokenParam]())
	validateUsername     = validation.ValidateParams(validation.NewSchema[usernameParam]())
	validateSlug         = validation.ValidateParams(validation.NewSchema[slugParam]())
)

func pathID(r *http.Request) int64 {
	return validation.Params[idParam](r).ID
}

func pathGameID(r *http.Request) int64 {
	return validation.Params[gameIDParam](r).GameID
}

func pathUserID(r *http.Request) int64 {
	return validation.Params[userIDParam](r).UserID
}

// currentUserID returns the id bound by the Authenticate middleware.
func currentUserID(r *http.Request) int64 {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	common.RespondWithServiceError(w, r, log, err)
}

func respondList(w http.ResponseWriter, data any) {
	common.RespondWithJSON(w, http.StatusOK, common.DataResponse{Data: data})
}

func respondMessage(w http.ResponseWriter, message string) {
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: message})
}
