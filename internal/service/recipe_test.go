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

func ptr[T any](v T) *T { return &v }

func TestCreateRecipeDefaults(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	soups := testhelpers.CreateCategory(t, db, "Soups")
	quick := testhelpers.CreateCategory(t, db, "Quick")

	recipe, err := svc.CreateRecipe(context.Background(), chef.ID, &types.CreateRecipeRequest{
		Title:        "Crème Brûlée",
		Description:  "Custard",
		Instructions: "Bake, chill, torch.",
		PrepTime:     20,
		CookTime:     40,
		Difficulty:   "hard",
		CategoryIDs:  []uuid.UUID{soups.ID, quick.ID, soups.ID},
		Ingredients: []types.IngredientInput{
			{Name: "heavy  cream", Quantity: 500, Unit: "ml"},
			{Name: "Egg Yolk", Quantity: 6},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "creme-brulee", recipe.Slug)
	assert.Equal(t, 60, recipe.TotalTime)
	assert.Equal(t, models.DefaultServings, recipe.Servings)
	assert.Equal(t, models.DifficultyHard, recipe.Difficulty)
	assert.True(t, recipe.IsPublished)
	require.NotNil(t, recipe.CategoryID)
	assert.Equal(t, soups.ID, *recipe.CategoryID)
	assert.Len(t, recipe.Categories, 2)
	assert.Equal(t, "chef", recipe.Author.Username)

	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "Heavy Cream", recipe.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 1, recipe.Ingredients[0].Position)
	assert.Equal(t, models.DefaultIngredientUnit, recipe.Ingredients[1].Unit)
}

func TestCreateRecipeValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)

	base := func() types.CreateRecipeRequest {
		return types.CreateRecipeRequest{Title: "Stew", Description: "Warm", Instructions: "Simmer."}
	}
	tests := []struct {
		name   string
		mutate func(*types.CreateRecipeRequest)
		field  string
	}{
		{"blank title", func(r *types.CreateRecipeRequest) { r.Title = "   " }, "title"},
		{"unknown difficulty", func(r *types.CreateRecipeRequest) { r.Difficulty = "Extreme" }, "difficulty"},
		{"negative time", func(r *types.CreateRecipeRequest) { r.CookTime = -5 }, "cook_time"},
		{"unknown category", func(r *types.CreateRecipeRequest) { r.CategoryIDs = []uuid.UUID{uuid.New()} }, "category_ids"},
		{"negative quantity", func(r *types.CreateRecipeRequest) {
			r.Ingredients = []types.IngredientInput{{Name: "Salt", Quantity: -1}}
		}, "ingredients"},
		{"nameless ingredient", func(r *types.CreateRecipeRequest) {
			r.Ingredients = []types.IngredientInput{{Name: "  ", Quantity: 1}}
		}, "ingredients"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)
			_, err := svc.CreateRecipe(context.Background(), chef.ID, &req)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count, "failed creates leave nothing behind")
}

func TestUpdateRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	rival := testhelpers.CreateUser(t, db, "rival", models.RoleChef)
	admin := testhelpers.CreateUser(t, db, "admin", models.RoleAdmin)
	recipe := testhelpers.CreateRecipe(t, db, chef, "Chili")
	ctx := context.Background()

	_, err := svc.UpdateRecipe(ctx, &Actor{ID: rival.ID, Role: rival.Role}, recipe.ID, &types.UpdateRecipeRequest{Title: ptr("Mine now")})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateRecipe(ctx, &Actor{ID: chef.ID, Role: chef.Role}, recipe.ID, &types.UpdateRecipeRequest{
		Title:    ptr("Texas Chili"),
		PrepTime: ptr(15),
		Servings: ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "texas-chili", updated.Slug)
	assert.Equal(t, 35, updated.TotalTime, "prep 15 + existing cook 20")
	assert.Equal(t, models.DefaultServings, updated.Servings)

	updated, err = svc.UpdateRecipe(ctx, &Actor{ID: admin.ID, Role: admin.Role}, recipe.ID, &types.UpdateRecipeRequest{
		TotalTime:   ptr(90),
		CookTime:    ptr(60),
		IsPublished: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 90, updated.TotalTime, "explicit total wins")
	assert.False(t, updated.IsPublished)

	_, err = svc.UpdateRecipe(ctx, &Actor{ID: chef.ID}, recipe.ID, &types.UpdateRecipeRequest{Instructions: ptr(" ")})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.UpdateRecipe(ctx, &Actor{ID: chef.ID}, uuid.New(), &types.UpdateRecipeRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRecipeReplacesCategoriesAndIngredients(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	mains := testhelpers.CreateCategory(t, db, "Mains")
	sides := testhelpers.CreateCategory(t, db, "Sides")
	recipe := testhelpers.CreateRecipe(t, db, chef, "Roast", testhelpers.InCategory(mains))
	actor := &Actor{ID: chef.ID, Role: chef.Role}

	updated, err := svc.UpdateRecipe(context.Background(), actor, recipe.ID, &types.UpdateRecipeRequest{
		CategoryIDs: &[]uuid.UUID{sides.ID},
		Ingredients: &[]types.IngredientInput{{Name: "Potato", Quantity: 3, Unit: "piece"}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Sides", updated.Categories[0].Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Potato", updated.Ingredients[0].Ingredient.Name)

	updated, err = svc.UpdateRecipe(context.Background(), actor, recipe.ID, &types.UpdateRecipeRequest{
		CategoryIDs: &[]uuid.UUID{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Categories)
	assert.Len(t, updated.Ingredients, 1, "ingredients untouched when omitted")
}

func TestUpdatePrimaryCategoryMovesLinks(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	categories := NewCategoryService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	soups := testhelpers.CreateCategory(t, db, "Soups")
	dinner := testhelpers.CreateCategory(t, db, "Dinner")
	quick := testhelpers.CreateCategory(t, db, "Quick")
	recipe := testhelpers.CreateRecipe(t, db, chef, "Minestrone", testhelpers.InCategory(soups))
	require.NoError(t, db.Create(&models.RecipeCategory{RecipeID: recipe.ID, CategoryID: quick.ID}).Error)
	actor := &Actor{ID: chef.ID, Role: chef.Role}

	updated, err := svc.UpdateRecipe(context.Background(), actor, recipe.ID, &types.UpdateRecipeRequest{
		CategoryID: &dinner.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, dinner.ID, *updated.CategoryID)

	names := make([]string, 0, len(updated.Categories))
	for _, c := range updated.Categories {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Dinner", "Quick"}, names)

	list, err := categories.ListActive(context.Background())
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, c := range list {
		counts[c.Name] = c.RecipeCount
	}
	assert.Equal(t, int64(0), counts["Soups"])
	assert.Equal(t, int64(1), counts["Dinner"])
	assert.Equal(t, int64(1), counts["Quick"])
}

func TestDraftVisibility(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	admin := testhelpers.CreateUser(t, db, "admin", models.RoleAdmin)
	draft := testhelpers.CreateRecipe(t, db, chef, "Secret", testhelpers.Draft())
	ctx := context.Background()

	_, err := svc.GetRecipe(ctx, draft.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetRecipe(ctx, draft.ID, &Actor{ID: uuid.New(), Role: models.RoleChef})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetRecipe(ctx, draft.ID, &Actor{ID: chef.ID, Role: chef.Role})
	assert.NoError(t, err)
	_, err = svc.GetRecipe(ctx, draft.ID, &Actor{ID: admin.ID, Role: admin.Role})
	assert.NoError(t, err)
}

func TestViewRecipeCountsViews(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	recipe := testhelpers.CreateRecipe(t, db, chef, "Popular")

	for i := 1; i <= 3; i++ {
		got, err := svc.ViewRecipe(context.Background(), recipe.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, i, got.ViewCount)
	}
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	ratings := NewRatingService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	fan := testhelpers.CreateUser(t, db, "fan", models.RoleUser)
	critic := testhelpers.CreateUser(t, db, "critic", models.RoleUser)
	category := testhelpers.CreateCategory(t, db, "Mains")
	recipe := testhelpers.CreateRecipe(t, db, chef, "Doomed", testhelpers.InCategory(category))
	ctx := context.Background()

	rating, _, err := ratings.RateRecipe(ctx, fan.ID, recipe.ID, &types.RateRecipeRequest{Rating: ptr(5.0)})
	require.NoError(t, err)
	_, err = ratings.VoteHelpful(ctx, critic.ID, rating.ID, true)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Favorite{UserID: fan.ID, RecipeID: recipe.ID}).Error)

	assert.ErrorIs(t, svc.DeleteRecipe(ctx, &Actor{ID: fan.ID, Role: fan.Role}, recipe.ID), ErrForbidden)
	require.NoError(t, svc.DeleteRecipe(ctx, &Actor{ID: chef.ID, Role: chef.Role}, recipe.ID))

	for _, model := range []interface{}{&models.Recipe{}, &models.Rating{}, &models.RatingHelpful{}, &models.Favorite{}, &models.RecipeCategory{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}

	var categories int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	assert.Equal(t, int64(1), categories, "categories survive their recipes")

	assert.ErrorIs(t, svc.DeleteRecipe(ctx, &Actor{ID: chef.ID}, recipe.ID), ErrNotFound)
}

func TestListRecipesFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	other := testhelpers.CreateUser(t, db, "other", models.RoleChef)
	soups := testhelpers.CreateCategory(t, db, "Soups")

	hard := func(r *models.Recipe) { r.Difficulty = models.DifficultyHard }
	popular := func(r *models.Recipe) { r.ViewCount = 100; r.AverageRating = 4.5; r.RatingCount = 2 }

	testhelpers.CreateRecipe(t, db, chef, "Tomato Soup", testhelpers.InCategory(soups))
	testhelpers.CreateRecipe(t, db, chef, "Onion Soup", testhelpers.InCategory(soups), hard)
	testhelpers.CreateRecipe(t, db, other, "Tomato Salad", popular)
	testhelpers.CreateRecipe(t, db, chef, "Tomato Draft", testhelpers.Draft())
	ctx := context.Background()
	page := types.PageRequest{Page: 1, PerPage: 10}

	list := func(f types.RecipeFilter) []models.Recipe {
		t.Helper()
		f.PageRequest = page
		recipes, _, err := svc.ListRecipes(ctx, f)
		require.NoError(t, err)
		return recipes
	}

	assert.Len(t, list(types.RecipeFilter{}), 3)
	assert.Len(t, list(types.RecipeFilter{Query: "TOMATO"}), 2)
	assert.Empty(t, list(types.RecipeFilter{Query: "%"}), "wildcards match literally")
	assert.Empty(t, list(types.RecipeFilter{Query: "t_mato"}))
	assert.Len(t, list(types.RecipeFilter{Query: "   "}), 3, "blank query is no filter")
	assert.Len(t, list(types.RecipeFilter{CategoryID: &soups.ID}), 2)
	assert.Len(t, list(types.RecipeFilter{Difficulty: "hard"}), 1)
	assert.Len(t, list(types.RecipeFilter{AuthorID: &chef.ID}), 2)
	assert.Len(t, list(types.RecipeFilter{AuthorID: &chef.ID, IncludeDrafts: true}), 3)
	assert.Len(t, list(types.RecipeFilter{Status: types.StatusDraft}), 1)

	byViews := list(types.RecipeFilter{SortBy: types.SortViews})
	assert.Equal(t, "Tomato Salad", byViews[0].Title)

	_, _, err := svc.ListRecipes(ctx, types.RecipeFilter{PageRequest: page, Status: "archived"})
	assert.Error(t, err)
	_, _, err = svc.ListRecipes(ctx, types.RecipeFilter{PageRequest: page, Difficulty: "impossible"})
	assert.Error(t, err)

	_, pagination, err := svc.ListRecipes(ctx, types.RecipeFilter{PageRequest: types.PageRequest{Page: 2, PerPage: 2}})
	require.NoError(t, err)
	assert.Equal(t, types.Pagination{Page: 2, PerPage: 2, Total: 3, Pages: 2, HasNext: false, HasPrev: true}, pagination)

	_, _, err = svc.SearchRecipes(ctx, types.RecipeFilter{PageRequest: page})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr), "search needs a query or filter")
	_, _, err = svc.SearchRecipes(ctx, types.RecipeFilter{PageRequest: page, Query: "  \t "})
	assert.True(t, errors.As(err, &verr), "whitespace is not a query")

	popularList, err := svc.PopularRecipes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, popularList, 1)
	assert.Equal(t, "Tomato Salad", popularList[0].Title)
}

func TestFeaturedRecipesSkipDrafts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, cache.New(nil))
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)
	testhelpers.CreateRecipe(t, db, chef, "Star", testhelpers.Featured())
	testhelpers.CreateRecipe(t, db, chef, "Hidden Star", testhelpers.Featured(), testhelpers.Draft())
	testhelpers.CreateRecipe(t, db, chef, "Plain")

	featured, err := svc.FeaturedRecipes(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Star", featured[0].Title)
}
