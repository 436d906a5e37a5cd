package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/common"
)

type signupBody struct {
	Username       string  `json:"username" validate:"required,min=6,max=16,username"`
	Email          string  `json:"email" validate:"required,email,max=100"`
	Password       string  `json:"password" validate:"required,min=8,max=100,password"`
	VerifyPassword string  `json:"verifyPassword" validate:"required"`
	Name           *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

var signupSchema = NewSchema(FieldsMatch("verifyPassword", "Passwords do not match",
	func(b *signupBody) (string, string) { return b.Password, b.VerifyPassword }))

type idParams struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

type pageQuery struct {
	Page  int  `param:"page" validate:"omitempty,min=1"`
	Limit int  `param:"limit" validate:"omitempty,min=1,max=100"`
	All   bool `param:"all"`
}

func fieldMap(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	out := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestSchema_CollectsEveryFieldError(t *testing.T) {
	err := signupSchema.Validate(&signupBody{Username: "ab!", Email: "not-an-email", Password: "short"})

	fields := fieldMap(t, err)
	assert.Equal(t, "must be at least 6 characters", fields["username"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 8 characters", fields["password"])
	assert.Equal(t, "is required", fields["verifyPassword"])
}

func TestSchema_RulesRunAfterFields(t *testing.T) {
	body := &signupBody{
		Username:       "player_one",
		Email:          "a@b.com",
		Password:       "Passw0rd!",
		VerifyPassword: "Passw0rd?",
	}
	fields := fieldMap(t, signupSchema.Validate(body))
	assert.Equal(t, map[string]string{"verifyPassword": "Passwords do not match"}, fields)

	body.VerifyPassword = "Passw0rd!"
	assert.NoError(t, signupSchema.Validate(body))
}

func TestSchema_CustomTags(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"all classes", "Passw0rd!", true},
		{"no special", "Passw0rdX", false},
		{"no upper", "passw0rd!", false},
		{"no digit", "Password!", false},
		{"foreign special", "Passw0rd#", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, strongPassword(tc.password))
		})
	}

	fields := fieldMap(t, NewSchema[signupBody]().Validate(&signupBody{
		Username: "player one", Email: "a@b.com", Password: "Passw0rd!", VerifyPassword: "x",
	}))
	assert.Equal(t, "can only contain letters, numbers and underscores", fields["username"])
}

func TestValidateBody(t *testing.T) {
	var got *signupBody
	h := ValidateBody(signupSchema)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Body[signupBody](r)
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"username":"player_one","email":"a@b.com","password":"Passw0rd!","verifyPassword":"Passw0rd!"}`)))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "player_one", got.Username)
}

func TestValidateBody_Rejects(t *testing.T) {
	called := false
	h := ValidateBody(signupSchema)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	for _, body := range []string{"", "{not json", `{"username":"player_one"}`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp common.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "validation failed", resp.Error)
		assert.NotEmpty(t, resp.Details)
	}
	assert.False(t, called)
}

func TestValidateBody_WrongTypeKeepsOtherFieldErrors(t *testing.T) {
	h := ValidateBody(signupSchema)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"username":"ab","email":"nope","password":12345678,"verifyPassword":"x"}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	fields := make(map[string]string, len(resp.Details))
	for _, f := range resp.Details {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "must be a string", fields["password"])
	assert.Equal(t, "must be at least 6 characters", fields["username"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.NotContains(t, fields, "body")
}

func TestValidateBody_NonObject(t *testing.T) {
	h := ValidateBody(signupSchema)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2]`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, common.FieldError{Field: "body", Message: "must be a valid JSON object"}, resp.Details[0])
}

func TestValidateParams(t *testing.T) {
	r := chi.NewRouter()
	r.With(ValidateParams(NewSchema[idParams]())).Get("/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]int64{"id": Params[idParams](r).ID})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/42", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":42}`, rec.Body.String())

	for _, raw := range []string{"abc", "0", "-3", "1.5"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/"+raw, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)

		var resp common.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Details, 1, raw)
		assert.Equal(t, "id", resp.Details[0].Field)
		assert.Equal(t, "must be a positive integer", resp.Details[0].Message)
	}
}

func TestValidateQuery(t *testing.T) {
	var got *pageQuery
	h := ValidateQuery(NewSchema[pageQuery]())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Query[pageQuery](r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?page=2&limit=50&all=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &pageQuery{Page: 2, Limit: 50, All: true}, got)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?limit=500", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be at most 100")

	got = nil
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &pageQuery{}, got)
}

func TestFieldPath_Dive(t *testing.T) {
	type broadcast struct {
		UserIDs []int64 `json:"userIds" validate:"required,min=1,dive,gt=0"`
	}
	fields := fieldMap(t, NewSchema[broadcast]().Validate(&broadcast{UserIDs: []int64{3, 0}}))
	assert.Equal(t, "must be greater than 0", fields["userIds[1]"])
}
