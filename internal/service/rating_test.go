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

func TestParseScore(t *testing.T) {
	for _, ok := range []float64{1, 3, 5} {
		score, err := parseScore(&ok)
		require.NoError(t, err)
		assert.Equal(t, int(ok), score)
	}
	for _, bad := range []float64{0, 6, -1, 3.5} {
		_, err := parseScore(&bad)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "%v should be rejected", bad)
	}
	_, err := parseScore(nil)
	assert.Error(t, err)
}

func TestRateRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRatingService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	alice := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	bob := testhelpers.CreateUser(t, db, "bob", models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, chef, "Lasagna")
	ctx := context.Background()

	rating, created, err := svc.RateRecipe(ctx, alice.ID, recipe.ID, &types.RateRecipeRequest{Rating: ptr(4.0), Review: "  Tasty  "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Tasty", rating.Review)
	assert.Equal(t, "alice", rating.User.Username)

	_, created, err = svc.RateRecipe(ctx, alice.ID, recipe.ID, &types.RateRecipeRequest{Rating: ptr(2.0)})
	require.NoError(t, err)
	assert.False(t, created, "second rating by the same user updates in place")

	_, _, err = svc.RateRecipe(ctx, bob.ID, recipe.ID, &types.RateRecipeRequest{Rating: ptr(5.0)})
	require.NoError(t, err)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.Equal(t, 3.5, stored.AverageRating)
	assert.Equal(t, 2, stored.RatingCount)

	summary, err := svc.Summary(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalRatings)
	assert.Equal(t, map[int]int64{1: 0, 2: 1, 3: 0, 4: 0, 5: 1}, summary.Distribution)

	ratings, pagination, _, err := svc.ListRatings(ctx, recipe.ID, types.PageRequest{Page: 1, PerPage: 1})
	require.NoError(t, err)
	assert.Len(t, ratings, 1)
	assert.Equal(t, 2, pagination.Pages)

	require.NoError(t, svc.DeleteRating(ctx, bob.ID, recipe.ID))
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.Equal(t, 2.0, stored.AverageRating)
	assert.Equal(t, 1, stored.RatingCount)

	assert.ErrorIs(t, svc.DeleteRating(ctx, bob.ID, recipe.ID), ErrNotFound)
}

func TestRateRecipeRequiresPublished(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRatingService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	fan := testhelpers.CreateUser(t, db, "fan", models.RoleUser)
	draft := testhelpers.CreateRecipe(t, db, chef, "Draft", testhelpers.Draft())

	_, _, err := svc.RateRecipe(context.Background(), fan.ID, draft.ID, &types.RateRecipeRequest{Rating: ptr(5.0)})
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = svc.RateRecipe(context.Background(), fan.ID, uuid.New(), &types.RateRecipeRequest{Rating: ptr(5.0)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVoteHelpful(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRatingService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	author := testhelpers.CreateUser(t, db, "author", models.RoleUser)
	reader := testhelpers.CreateUser(t, db, "reader", models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, chef, "Paella")
	ctx := context.Background()

	rating, _, err := svc.RateRecipe(ctx, author.ID, recipe.ID, &types.RateRecipeRequest{Rating: ptr(5.0), Review: "Great"})
	require.NoError(t, err)

	_, err = svc.VoteHelpful(ctx, author.ID, rating.ID, true)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr), "authors cannot vote on their own review")

	voted, err := svc.VoteHelpful(ctx, reader.ID, rating.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.HelpfulCount)

	voted, err = svc.VoteHelpful(ctx, chef.ID, rating.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, voted.HelpfulCount)

	voted, err = svc.VoteHelpful(ctx, reader.ID, rating.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.HelpfulCount, "changing a vote replaces it")

	var votes int64
	require.NoError(t, db.Model(&models.RatingHelpful{}).Count(&votes).Error)
	assert.Equal(t, int64(2), votes)

	_, err = svc.VoteHelpful(ctx, reader.ID, uuid.New(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}
