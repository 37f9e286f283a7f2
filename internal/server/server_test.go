package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookeasy/backend/config"
	"github.com/cookeasy/backend/internal/api"
	"github.com/cookeasy/backend/internal/database"
	"github.com/cookeasy/backend/internal/testhelpers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Wrap(testhelpers.SetupTestDB(t))
	require.NoError(t, err)

	cfg := &config.Config{
		Environment: config.Test,
		ServerHost:  "127.0.0.1",
		ServerPort:  "0",
		CORSOrigins: []string{"http://localhost:3000"},
		JWTSecret:   testhelpers.TestJWTSecret,
		JWTTTL:      time.Hour,
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(api.Dependencies{Config: cfg, DB: db}, logger)
}

func TestNew(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "message")
	assert.Contains(t, body, "error")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, srv.Start())
}
