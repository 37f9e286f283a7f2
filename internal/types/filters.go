package types

import (
	"strings"

	"github.com/google/uuid"
)

// Recipe sort keys accepted by list and search endpoints
const (
	SortCreatedAt = "created_at"
	SortViews     = "views"
	SortLikes     = "likes"
	SortRating    = "rating"
)

// Admin recipe status filters
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusFeatured  = "featured"
)

// RecipeFilter narrows recipe listings
type RecipeFilter struct {
	PageRequest
	Query      string
	CategoryID *uuid.UUID
	Difficulty string
	SortBy     string
	AuthorID   *uuid.UUID
	// Status is an admin-only filter; empty means published only
	Status string
	// IncludeDrafts lists unpublished recipes too (author's own view)
	IncludeDrafts bool
}

// HasCriteria reports whether a search carries anything to filter on
func (f RecipeFilter) HasCriteria() bool {
	return strings.TrimSpace(f.Query) != "" || f.CategoryID != nil || f.Difficulty != ""
}

// UserFilter narrows user listings
type UserFilter struct {
	PageRequest
	Search     string
	Role       string
	ActiveOnly bool
}

type IngredientFilter struct {
	Query    string
	Category string
}
