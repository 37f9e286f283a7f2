package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cookeasy/backend/internal/mocks"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/testhelpers"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestUploadRecipeImage(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := new(mocks.MockObjectStore)
	svc := NewImageService(db, store)
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	rival := testhelpers.CreateUser(t, db, "rival", models.RoleChef)
	recipe := testhelpers.CreateRecipe(t, db, chef, "Tart")
	ctx := context.Background()
	owner := &Actor{ID: chef.ID, Role: chef.Role}

	prefix := "recipes/" + recipe.ID.String() + "/"
	store.On("PutObject", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, ".png")
	}), "image/png").Return("https://cdn.example.com/first.png", nil).Once()

	updated, err := svc.UploadRecipeImage(ctx, owner, recipe.ID, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/first.png", updated.ImageURL)
	require.Len(t, store.Uploaded, 1)
	for _, data := range store.Uploaded {
		assert.Equal(t, pngHeader, data)
	}

	t.Run("replacing deletes the previous object", func(t *testing.T) {
		store.On("PutObject", ctx, mock.Anything, "image/png").Return("https://cdn.example.com/second.png", nil).Once()
		store.On("KeyFromURL", "https://cdn.example.com/first.png").Return("recipes/first.png", true).Once()
		store.On("DeleteObject", ctx, "recipes/first.png").Return(nil).Once()

		updated, err := svc.UploadRecipeImage(ctx, owner, recipe.ID, bytes.NewReader(pngHeader))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/second.png", updated.ImageURL)
		store.AssertExpectations(t)
	})

	t.Run("only the author or an admin", func(t *testing.T) {
		_, err := svc.UploadRecipeImage(ctx, &Actor{ID: rival.ID, Role: rival.Role}, recipe.ID, bytes.NewReader(pngHeader))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		_, err := svc.UploadRecipeImage(ctx, owner, uuid.New(), bytes.NewReader(pngHeader))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects non-images", func(t *testing.T) {
		_, err := svc.UploadRecipeImage(ctx, owner, recipe.ID, strings.NewReader("just some text"))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "image", verr.Field)

		_, err = svc.UploadRecipeImage(ctx, owner, recipe.ID, bytes.NewReader(nil))
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		big := append(append([]byte{}, pngHeader...), make([]byte, MaxImageSize)...)
		_, err := svc.UploadRecipeImage(ctx, owner, recipe.ID, bytes.NewReader(big))
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})

	store.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestUploadProfileImage(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	store := new(mocks.MockObjectStore)
	svc := NewImageService(db, store)
	user := testhelpers.CreateUser(t, db, "cook", models.RoleUser)
	ctx := context.Background()

	store.On("PutObject", ctx, mock.Anything, "image/png").Return("https://cdn.example.com/me.png", nil).Once()
	updated, err := svc.UploadProfileImage(ctx, user.ID, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/me.png", updated.ProfileImage)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "https://cdn.example.com/me.png", stored.ProfileImage)

	store.On("PutObject", ctx, mock.Anything, "image/png").Return("", errors.New("bucket unavailable")).Once()
	store.On("KeyFromURL", mock.Anything).Return("", false).Maybe()
	_, err = svc.UploadProfileImage(ctx, user.ID, bytes.NewReader(pngHeader))
	assert.Error(t, err)

	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "https://cdn.example.com/me.png", stored.ProfileImage, "a failed upload keeps the old image")
	store.AssertExpectations(t)
}

func TestUploadWithoutStorage(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewImageService(db, nil)

	_, err := svc.UploadProfileImage(context.Background(), uuid.New(), bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = svc.UploadRecipeImage(context.Background(), nil, uuid.New(), bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
