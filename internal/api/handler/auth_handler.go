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

var (
	registerSchema = validation.NewSchema(validation.FieldsMatch("verifyPassword", "Passwords do not match",
		func(req *service.RegisterRequest) (string, string) { return req.Password, req.VerifyPassword }))
	resetPasswordSchema = validation.NewSchema(validation.FieldsMatch("verifyPassword", "Passwords do not match",
		func(req *service.ResetPasswordRequest) (string, string) { return req.Password, req.VerifyPassword }))
)

type AuthHandler struct {
	authService *service.AuthService
	mw          *middleware.Auth
	log         *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, mw *middleware.Auth, log *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, mw: mw, log: log}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.With(validation.ValidateBody(registerSchema)).Post("/register", h.register)
	r.With(validation.ValidateBody(validation.NewSchema[service.LoginRequest]())).Post("/login", h.login)
	r.With(validateToken).Get("/verify-email/{token}", h.verifyEmail)
	r.With(validation.ValidateBody(validation.NewSchema[service.ForgotPasswordRequest]())).Post("/forgot-password", h.forgotPassword)
	r.With(validateToken, validation.ValidateBody(resetPasswordSchema)).Post("/reset-password/{token}", h.resetPassword)

	r.Group(func(authed chi.Router) {
		authed.Use(h.mw.Authenticate)
		authed.Get("/verify", h.currentUser) // GET /api/auth/verify
		authed.Post("/send-verification-email", h.sendVerificationEmail)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	resp, err := h.authService.Register(r.Context(), *validation.Body[service.RegisterRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	resp, err := h.authService.Login(r.Context(), *validation.Body[service.LoginRequest](r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) currentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := validation.Params[tokenParam](r).Token
	if _, err := h.authService.VerifyEmail(r.Context(), token); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Email verified successfully")
}

func (h *AuthHandler) sendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.SendVerificationEmail(r.Context(), currentUserID(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Verification email sent")
}

func (h *AuthHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	h.authService.ForgotPassword(r.Context(), validation.Body[service.ForgotPasswordRequest](r).Email)
	respondMessage(w, "If an account with that email exists, a password reset link has been sent")
}

func (h *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	token := validation.Params[tokenParam](r).Token
	if err := h.authService.ResetPassword(r.Context(), token, *validation.Body[service.ResetPasswordRequest](r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, "Password has been reset successfully")
}
