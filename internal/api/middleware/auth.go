package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"gamestore/internal/common"
	"gamestore/internal/common/security"
	"gamestore/internal/domain/model"
)

type contextKey string

const UserIDCtxKey contextKey = "userID"

// TokenVerifier checks a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// UserLoader loads live users; soft-deleted users are reported as not found.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Auth holds the two auth stages: Authenticate binds the token subject to
// the request, RequireAdmin then checks the stored admin flag.
type Auth struct {
	tokens TokenVerifier
	users  UserLoader
	log    *slog.Logger
}

func NewAuth(tokens TokenVerifier, users UserLoader, log *slog.Logger) *Auth {
	return &Auth{tokens: tokens, users: users, log: log}
}

func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			common.RespondWithError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		token := jwtauth.TokenFromHeader(r)
		if token == "" {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		userID, err := a.tokens.Verify(token)
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) {
				common.RespondWithError(w, http.StatusUnauthorized, "Token expired")
				return
			}
			a.log.DebugContext(r.Context(), "rejected bearer token", "error", err)
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// RequireAdmin must run after Authenticate.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			a.log.ErrorContext(r.Context(), "admin check failed", "user_id", userID, "error", err)
			common.RespondWithError(w, http.StatusInternalServerError, common.ErrInternalServer.Error())
			return
		}
		if user == nil || !user.IsAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Access denied. Admin privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDCtxKey, userID)
}

// UserIDFromContext returns the id bound by Authenticate.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}
