package common

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound              = errors.New("requested resource not found")
	ErrUnauthorized          = errors.New("unauthorized access")
	ErrForbidden             = errors.New("forbidden access")
	ErrBadRequest            = errors.New("bad request")
	ErrConflict              = errors.New("resource conflict") // e.g., username already exists
	ErrInternalServer        = errors.New("internal server error")
	ErrValidation            = errors.New("validation failed")
	ErrTooManyRequests       = errors.New("too many requests")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrServiceUnavailable    = errors.New("service unavailable")
)

// Postgres SQLSTATE codes the repositories translate.
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)

// FieldError is a single failed rule on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field failure found in one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Error is a typed failure with a client-safe message. Kind is one of the
// sentinel errors above so errors.Is keeps working through wrapping.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError pairs a sentinel kind with the message shown to clients.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// PublicMessage returns the message a client may see for err.
func PublicMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ErrValidation.Error()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgUniqueViolation:
			return ErrConflict.Error()
		case PgForeignKeyViolation:
			return ErrNotFound.Error()
		}
	}
	for _, kind := range []error{ErrNotFound, ErrUnauthorized, ErrForbidden, ErrBadRequest, ErrConflict, ErrTooManyRequests, ErrInvalidOrExpiredToken, ErrServiceUnavailable} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ErrInternalServer.Error()
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidOrExpiredToken) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrTooManyRequests) {
		return http.StatusTooManyRequests
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return http.StatusServiceUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgUniqueViolation:
			return http.StatusConflict
		case PgForeignKeyViolation:
			return http.StatusNotFound
		}
	}

	return http.StatusInternalServerError
}

// IsPgCode reports whether err wraps a postgres error with the given SQLSTATE.
func IsPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
