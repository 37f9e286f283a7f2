package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookeasy/backend/internal/models"
	"github.com/cookeasy/backend/internal/testhelpers"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tomato Soup", "tomato-soup"},
		{"  Crème Brûlée!  ", "creme-brulee"},
		{"Mac & Cheese (Baked)", "mac-cheese-baked"},
		{"Jalapeño--Poppers", "jalapeno-poppers"},
		{"100% Rye", "100-rye"},
		{"!!!", "recipe"},
		{"", "recipe"},
		{"日本料理", "recipe"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, "recipe"))
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	slug := Slugify(strings.Repeat("ab ", 150), "recipe")
	assert.LessOrEqual(t, len(slug), maxSlugLength)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestUniqueSlug(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	chef := testhelpers.CreateUser(t, db, "chef", models.RoleChef)

	slug, err := uniqueSlug(db, &models.Recipe{}, "pie", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "pie", slug)

	first := testhelpers.CreateRecipe(t, db, chef, "Pie")
	require.NoError(t, db.Model(first).Update("slug", "pie").Error)
	second := testhelpers.CreateRecipe(t, db, chef, "Pie again")
	require.NoError(t, db.Model(second).Update("slug", "pie-2").Error)

	slug, err = uniqueSlug(db, &models.Recipe{}, "pie", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "pie-3", slug)

	slug, err = uniqueSlug(db, &models.Recipe{}, "pie", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "pie", slug, "a row keeps its own slug")
}
