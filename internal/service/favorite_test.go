package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookeasy/backend/internal/cache"
	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/testhelpers"
	"github.com/cookeasy/backend/internal/types"
)

func TestToggleFavorite(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewFavoriteService(db)
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	alice := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	bob := testhelpers.CreateUser(t, db, "bob", models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, chef, "Pho")
	ctx := context.Background()

	favorited, likes, err := svc.ToggleFavorite(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Equal(t, 1, likes)

	_, likes, err = svc.ToggleFavorite(ctx, bob.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)

	is, err := svc.IsFavorite(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, is)

	favorited, likes, err = svc.ToggleFavorite(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Equal(t, 1, likes)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.Equal(t, 1, stored.LikeCount)

	draft := testhelpers.CreateRecipe(t, db, chef, "Draft", testhelpers.Draft())
	_, _, err = svc.ToggleFavorite(ctx, alice.ID, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFavoritesIncludesHighRatings(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	favorites := NewFavoriteService(db)
	ratings := NewRatingService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	fan := testhelpers.CreateUser(t, db, "fan", models.RoleUser)
	bookmarked := testhelpers.CreateRecipe(t, db, chef, "Bookmarked")
	loved := testhelpers.CreateRecipe(t, db, chef, "Loved")
	meh := testhelpers.CreateRecipe(t, db, chef, "Meh")
	both := testhelpers.CreateRecipe(t, db, chef, "Both")
	ctx := context.Background()

	_, _, err := favorites.ToggleFavorite(ctx, fan.ID, bookmarked.ID)
	require.NoError(t, err)
	_, _, err = favorites.ToggleFavorite(ctx, fan.ID, both.ID)
	require.NoError(t, err)
	for recipeID, score := range map[uuid.UUID]float64{loved.ID: 4, meh.ID: 3, both.ID: 5} {
		_, _, err := ratings.RateRecipe(ctx, fan.ID, recipeID, &types.RateRecipeRequest{Rating: ptr(score)})
		require.NoError(t, err)
	}

	recipes, pagination, err := favorites.ListFavorites(ctx, fan.ID, types.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pagination.Total)
	titles := make([]string, 0, len(recipes))
	for _, r := range recipes {
		titles = append(titles, r.Title)
	}
	assert.ElementsMatch(t, []string{"Bookmarked", "Loved", "Both"}, titles)

	require.NoError(t, db.Model(loved).Update("is_published", false).Error)
	_, pagination, err = favorites.ListFavorites(ctx, fan.ID, types.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), pagination.Total, "unpublished recipes drop out")
}
