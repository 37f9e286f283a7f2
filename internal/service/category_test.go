package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/testhelpers"
	"github.com/cookeasy/backend/internal/types"
)

func TestCategoryLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCategoryService(db, cache.New(nil))
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, &types.CategoryRequest{
		Name:       ptr("  Comfort Food "),
		Color:      ptr("#aa5500"),
		IsFeatured: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Comfort Food", created.Name)
	assert.Equal(t, "comfort-food", created.Slug)
	assert.True(t, created.IsActive)
	assert.True(t, created.IsFeatured)

	_, err = svc.CreateCategory(ctx, &types.CategoryRequest{Name: ptr("comfort food")})
	assert.ErrorIs(t, err, ErrDuplicate, "names are unique regardless of case")

	_, err = svc.CreateCategory(ctx, &types.CategoryRequest{})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	renamed, err := svc.UpdateCategory(ctx, created.ID, &types.CategoryRequest{Name: ptr("Cozy Classics"), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "cozy-classics", renamed.Slug)
	assert.False(t, renamed.IsActive)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.GetCategory(ctx, created.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := svc.GetCategory(ctx, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Cozy Classics", got.Name)

	_, err = svc.UpdateCategory(ctx, uuid.New(), &types.CategoryRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryRecipeCounts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCategoryService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	soups := testhelpers.CreateCategory(t, db, "Soups")
	testhelpers.CreateCategory(t, db, "Breads")
	testhelpers.CreateRecipe(t, db, chef, "Borscht", testhelpers.InCategory(soups))
	testhelpers.CreateRecipe(t, db, chef, "Ramen", testhelpers.InCategory(soups))
	testhelpers.CreateRecipe(t, db, chef, "Unfinished", testhelpers.InCategory(soups), testhelpers.Draft())

	list, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Breads", list[0].Name, "ordered by name")
	assert.Equal(t, int64(0), list[0].RecipeCount)
	assert.Equal(t, int64(2), list[1].RecipeCount, "drafts are not counted")
}

func TestDeleteCategoryKeepsRecipes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCategoryService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	soups := testhelpers.CreateCategory(t, db, "Soups")
	recipe := testhelpers.CreateRecipe(t, db, chef, "Borscht", testhelpers.InCategory(soups))
	ctx := context.Background()

	require.NoError(t, svc.DeleteCategory(ctx, soups.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, soups.ID), ErrNotFound)

	var reloaded models.Recipe
	require.NoError(t, db.First(&reloaded, "id = ?", recipe.ID).Error)
	assert.Nil(t, reloaded.CategoryID)

	var links int64
	require.NoError(t, db.Model(&models.RecipeCategory{}).Count(&links).Error)
	assert.Zero(t, links)
}
