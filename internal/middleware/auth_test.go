package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func serve(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	validator := new(mockValidator)
	validator.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: userID, Username: "cook", Role: "chef"}, nil)
	validator.On("ValidateToken", "bad").Return(nil, errors.New("expired"))

	router := gin.New()
	router.GET("/", AuthMiddleware(validator), func(c *gin.Context) {
		id, ok := UserID(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "role": Role(c)})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID.String())
				assert.Contains(t, w.Body.String(), `"role":"chef"`)
			}
		})
	}
}

func TestOptionalAuthNeverAborts(t *testing.T) {
	validator := new(mockValidator)
	validator.On("ValidateToken", "bad").Return(nil, errors.New("nope"))

	router := gin.New()
	router.GET("/", OptionalAuth(validator), func(c *gin.Context) {
		_, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	assert.JSONEq(t, `{"authenticated":false}`, serve(router, "").Body.String())
	assert.JSONEq(t, `{"authenticated":false}`, serve(router, "Bearer bad").Body.String())
}

func TestRequireRoles(t *testing.T) {
	active := &models.User{ID: uuid.New(), Role: models.RoleUser, IsActive: true}
	chef := &models.User{ID: uuid.New(), Role: models.RoleChef, IsActive: true}
	disabled := &models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: false}
	missing := uuid.New()

	loader := new(mockLoader)
	loader.On("GetUserByID", active.ID).Return(active, nil)
	loader.On("GetUserByID", chef.ID).Return(chef, nil)
	loader.On("GetUserByID", disabled.ID).Return(disabled, nil)
	loader.On("GetUserByID", missing).Return(nil, &service.NotFoundError{Resource: "User"})

	validator := new(mockValidator)
	for token, id := range map[string]uuid.UUID{"active": active.ID, "chef": chef.ID, "disabled": disabled.ID, "missing": missing} {
		validator.On("ValidateToken", token).Return(&types.TokenClaims{UserID: id}, nil)
	}

	router := gin.New()
	router.GET("/", AuthMiddleware(validator), ChefOrAdmin(loader), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": Role(c)})
	})

	w := serve(router, "Bearer chef")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"chef"}`, w.Body.String())

	w = serve(router, "Bearer active")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
	assert.Contains(t, w.Body.String(), `"user_role":"user"`)

	w = serve(router, "Bearer disabled")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Account is deactivated")

	w = serve(router, "Bearer missing")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}
