package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"matricula/pkg/platform/secrets"
)

type AdminHandlerSuite struct {
	suite.Suite
	limiter *stubLimiter
	router  chi.Router
	key     string
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

type stubLimiter struct {
	counts   map[string]int
	resetErr error
	resets   []string
}

func (s *stubLimiter) Count(_ context.Context, clientID string) (int, error) {
	if s.counts == nil {
		return 0, errors.New("count unavailable")
	}
	return s.counts[clientID], nil
}

func (s *stubLimiter) Reset(_ context.Context, clientID string) error {
	if s.resetErr != nil {
		return s.resetErr
	}
	s.resets = append(s.resets, clientID)
	return nil
}

func (s *AdminHandlerSuite) SetupTest() {
	s.key = "operator-key"
	hash, err := secrets.Hash(s.key)
	s.Require().NoError(err)

	s.limiter = &stubLimiter{counts: map[string]int{"203.0.113.9": 7}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.limiter, logger, hash).Register(s.router)
}

func (s *AdminHandlerSuite) do(method, path, key string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, nil)
	if key != "" {
		r.Header.Set("X-Admin-Key", key)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func (s *AdminHandlerSuite) TestCountRequiresKey() {
	w := s.do("GET", "/admin/ratelimit/203.0.113.9", "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do("GET", "/admin/ratelimit/203.0.113.9", "wrong")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AdminHandlerSuite) TestCount() {
	w := s.do("GET", "/admin/ratelimit/203.0.113.9", s.key)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"client_id":"203.0.113.9","count":7}`, w.Body.String())
}

func (s *AdminHandlerSuite) TestCountError() {
	s.limiter.counts = nil
	w := s.do("GET", "/admin/ratelimit/203.0.113.9", s.key)
	s.Equal(http.StatusInternalServerError, w.Code)
	s.NotContains(w.Body.String(), "count unavailable")
}

func (s *AdminHandlerSuite) TestReset() {
	w := s.do("DELETE", "/admin/ratelimit/203.0.113.9", s.key)
	s.Equal(http.StatusOK, w.Code)
	s.Equal([]string{"203.0.113.9"}, s.limiter.resets)
}

func (s *AdminHandlerSuite) TestDisabledWithoutHash() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	New(s.limiter, logger, "").Register(router)

	r := httptest.NewRequest("GET", "/admin/ratelimit/anyone", nil)
	r.Header.Set("X-Admin-Key", s.key)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	s.Equal(http.StatusNotFound, w.Code)
}
