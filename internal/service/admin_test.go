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

func TestAdminUserActions(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewAdminService(db, cache.New(nil))
	admin := testhelpers.CreateUser(t, db, "admin", models.RoleAdmin)
	user := testhelpers.CreateUser(t, db, "user", models.RoleUser)
	ctx := context.Background()

	promoted, err := svc.SetRole(ctx, admin.ID, user.ID, models.RoleChef)
	require.NoError(t, err)
	assert.Equal(t, models.RoleChef, promoted.Role)

	_, err = svc.SetRole(ctx, admin.ID, user.ID, models.Role("owner"))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.SetRole(ctx, admin.ID, admin.ID, models.RoleUser)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Cannot change your own role", verr.Message)

	disabled, err := svc.ToggleStatus(ctx, admin.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, disabled.IsActive)
	enabled, err := svc.ToggleStatus(ctx, admin.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, enabled.IsActive)

	_, err = svc.ToggleStatus(ctx, admin.ID, admin.ID)
	assert.True(t, errors.As(err, &verr))

	verified, err := svc.SetVerified(ctx, user.ID, true)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	_, err = svc.SetVerified(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleFeatured(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewAdminService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	recipe := testhelpers.CreateRecipe(t, db, chef, "Pavlova")

	toggled, err := svc.ToggleFeatured(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFeatured)

	toggled, err = svc.ToggleFeatured(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsFeatured)

	_, err = svc.ToggleFeatured(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewStatsService(db, cache.New(nil))
	ratings := NewRatingService(db, cache.New(nil))
	testhelpers.CreateUser(t, db, "admin", models.RoleAdmin)
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	fan := testhelpers.CreateUser(t, db, "fan", models.RoleUser)
	gone := testhelpers.CreateUser(t, db, "gone", models.RoleChef)
	require.NoError(t, db.Model(gone).Update("is_active", false).Error)
	testhelpers.CreateCategory(t, db, "Soups")
	recipe := testhelpers.CreateRecipe(t, db, chef, "Gumbo", testhelpers.Featured())
	testhelpers.CreateRecipe(t, db, chef, "Draft", testhelpers.Draft())
	ctx := context.Background()

	_, _, err := ratings.RateRecipe(ctx, fan.ID, recipe.ID, &types.RateRecipeRequest{Rating: ptr(4.0)})
	require.NoError(t, err)
	_, _, err = ratings.RateRecipe(ctx, gone.ID, recipe.ID, &types.RateRecipeRequest{Rating: ptr(3.0)})
	require.NoError(t, err)

	platform, err := svc.PlatformStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.PlatformStats{
		TotalRecipes:    1,
		TotalUsers:      3,
		TotalChefs:      1,
		TotalCategories: 1,
		TotalRatings:    2,
	}, *platform)

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), dashboard.TotalUsers)
	assert.Equal(t, int64(2), dashboard.TotalRecipes)
	assert.Equal(t, int64(1), dashboard.PublishedRecipes)
	assert.Equal(t, int64(1), dashboard.FeaturedRecipes)
	assert.Equal(t, int64(4), dashboard.RecentUsers)
	assert.Equal(t, 3.5, dashboard.AverageRating)
	assert.Equal(t, map[string]int64{"user": 1, "chef": 2, "admin": 1}, dashboard.RoleDistribution)
}

func TestUserDirectory(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewUserService(db)
	favorites := NewFavoriteService(db)
	chef := testhelpers.CreateUser(t, db, "gordon", models.RoleChef)
	fan := testhelpers.CreateUser(t, db, "fan", models.RoleUser)
	hidden := testhelpers.CreateUser(t, db, "goran", models.RoleUser)
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)
	recipe := testhelpers.CreateRecipe(t, db, chef, "Wellington")
	testhelpers.CreateRecipe(t, db, chef, "Draft", testhelpers.Draft())
	ctx := context.Background()

	_, _, err := favorites.ToggleFavorite(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, chef.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, types.UserStats{RecipeCount: 1, TotalLikes: 1}, stats[chef.ID])
	assert.Equal(t, types.UserStats{}, stats[fan.ID])

	users, _, err := svc.SearchUsers(ctx, "GOR", types.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, users, 1, "inactive users are not searchable")
	assert.Equal(t, "gordon", users[0].Username)

	_, _, err = svc.SearchUsers(ctx, " g ", types.PageRequest{Page: 1, PerPage: 10})
	assert.Error(t, err)

	users, _, err = svc.SearchUsers(ctx, "g_r", types.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, users, "underscore is not a wildcard")

	users, _, err = svc.ListUsers(ctx, types.UserFilter{PageRequest: types.PageRequest{Page: 1, PerPage: 10}, Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = svc.GetPublicUser(ctx, hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetUserByID(ctx, hidden.ID)
	assert.NoError(t, err)

	all, pagination, err := svc.ListUsers(ctx, types.UserFilter{PageRequest: types.PageRequest{Page: 1, PerPage: 10}, Role: "user"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), pagination.Total)

	updated, err := svc.UpdateProfile(ctx, fan.ID, &types.UpdateProfileRequest{Bio: ptr("  I like soup  ")})
	require.NoError(t, err)
	assert.Equal(t, "I like soup", updated.Bio)
	assert.Equal(t, "fan", updated.FullName, "omitted fields are left alone")
}
