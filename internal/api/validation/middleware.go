package validation

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gamestore/internal/common"
)

const maxBodyBytes = 1 << 20

type ctxKey int

const (
	bodyKey ctxKey = iota
	paramsKey
	queryKey
)

// ValidateBody decodes the JSON body into a T, validates it against schema
// and stores the result for Body.
func ValidateBody[T any](schema *Schema[T]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := new(T)
			prior, err := decodeBody(v, http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				msg := "must be a valid JSON object"
				if errors.Is(err, io.EOF) {
					msg = "is required"
				}
				respond(w, &common.ValidationError{Fields: []common.FieldError{{Field: "body", Message: msg}}})
				return
			}
			if err := schema.validate(v, prior); err != nil {
				respond(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), bodyKey, v)))
		})
	}
}

// ValidateParams coerces chi URL parameters into a T and validates it.
func ValidateParams[T any](schema *Schema[T]) func(http.Handler) http.Handler {
	return valuesMiddleware(schema, paramsKey, func(r *http.Request) func(string) string {
		return func(name string) string { return chi.URLParam(r, name) }
	})
}

// ValidateQuery coerces the query string into a T and validates it.
func ValidateQuery[T any](schema *Schema[T]) func(http.Handler) http.Handler {
	return valuesMiddleware(schema, queryKey, func(r *http.Request) func(string) string {
		q := r.URL.Query()
		return q.Get
	})
}

func valuesMiddleware[T any](schema *Schema[T], key ctxKey, source func(*http.Request) func(string) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := new(T)
			prior := coerce(v, source(r))
			if err := schema.validate(v, prior); err != nil {
				respond(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, v)))
		})
	}
}

func respond(w http.ResponseWriter, err error) {
	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		ve = &common.ValidationError{}
	}
	common.RespondWithJSON(w, http.StatusBadRequest, common.ErrorResponse{
		Error:   common.ErrValidation.Error(),
		Details: ve.Fields,
	})
}

// Body returns the value stored by ValidateBody. It panics when the route
// was not wired with ValidateBody for T.
func Body[T any](r *http.Request) *T {
	return mustGet[T](r, bodyKey)
}

// Params returns the value stored by ValidateParams.
func Params[T any](r *http.Request) *T {
	return mustGet[T](r, paramsKey)
}

// Query returns the value stored by ValidateQuery.
func Query[T any](r *http.Request) *T {
	return mustGet[T](r, queryKey)
}

func mustGet[T any](r *http.Request, key ctxKey) *T {
	v, ok := r.Context().Value(key).(*T)
	if !ok {
		panic("validation: request was not validated for this type")
	}
	return v
}
