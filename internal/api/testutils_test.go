package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cookeasy/backend/config"
	"github.com/cookeasy/backend/internal/database"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/testhelpers"
)

// testAPI is a fully routed API over an in-memory database
type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	svc    *Services
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB := testhelpers.SetupTestDB(t)
	db, err := database.Wrap(gormDB)
	require.NoError(t, err)

	cfg := &config.Config{
		Environment: config.Test,
		JWTSecret:   testhelpers.TestJWTSecret,
		JWTTTL:      time.Hour,
	}

	router := gin.New()
	svc := RegisterRoutes(router, Dependencies{Config: cfg, DB: db})
	return &testAPI{t: t, db: gormDB, router: router, svc: svc}
}

// user creates an account and returns it with a bearer token
func (a *testAPI) user(username string, role models.Role) (*models.User, string) {
	a.t.Helper()
	u := testhelpers.CreateUser(a.t, a.db, username, role)
	token, err := a.svc.Auth.GenerateToken(u)
	require.NoError(a.t, err)
	return u, token
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// requireStatus fails with the response body for context
func requireStatus(t *testing.T, want int, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
	return decode(t, w)
}

// pngBytes is the 8-byte PNG signature plus an IHDR header, enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// upload posts data as the "image" form field
func (a *testAPI) upload(path, token, filename string, data []byte) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(a.t, err)
	_, err = part.Write(data)
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}
