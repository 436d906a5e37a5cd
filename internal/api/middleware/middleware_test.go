package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestLogger_LevelsAndMasking(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/auth/verify-email/secret-token", nil))

	out := logs.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=400")
	assert.Contains(t, out, "/api/auth/verify-email/***")
	assert.NotContains(t, out, "secret-token")
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/api/auth/reset-password/***", sanitizePath("/api/auth/reset-password/abc"))
	assert.Equal(t, "/api/games/12", sanitizePath("/api/games/12"))
}

type stubLimiter struct {
	limit int
	calls int
	err   error
}

func (s *stubLimiter) Limit() int { return s.limit }

func (s *stubLimiter) Allow(context.Context, string) (bool, int, error) {
	s.calls++
	if s.err != nil {
		return false, 0, s.err
	}
	remaining := s.limit - s.calls
	return remaining >= 0, max(remaining, 0), nil
}

func TestRateLimit(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	limiter := &stubLimiter{limit: 2}
	h := RateLimit(limiter, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	var logs bytes.Buffer
	limiter := &stubLimiter{limit: 1, err: errors.New("redis down")}
	h := RateLimit(limiter, slog.New(slog.NewTextHandler(&logs, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, logs.String(), "rate limiter unavailable")
}

func TestRateLimit_Disabled(t *testing.T) {
	limiter := &stubLimiter{limit: 0}
	h := RateLimit(limiter, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Zero(t, limiter.calls)
}
