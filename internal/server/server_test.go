package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"modelreviews/internal/config"
	"modelreviews/internal/handlers"
	"modelreviews/internal/middleware"
)

func TestServerMountsAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{Environment: "test", HTTP: config.HTTPConfig{Host: "127.0.0.1", Port: 0}}
	hs := handlers.New(handlers.Deps{
		Log:           zerolog.Nop(),
		Environment:   "test",
		Authenticator: middleware.NewAuthenticator("k", nil, nil),
		DBPing:        func(context.Context) error { return nil },
	})
	srv := NewHTTPServer(cfg, zerolog.Nop(), hs)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/reviews/7", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/7", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
