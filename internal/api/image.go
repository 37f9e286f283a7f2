package api

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

// formImage opens the multipart "image" field. The caller closes it.
func formImage(c *gin.Context) (multipart.File, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)

	header, err := c.FormFile("image")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "An image file is required in the \"image\" field", "validation_error")
		return nil, false
	}
	if header.Size > service.MaxImageSize {
		errorJSON(c, http.StatusBadRequest, "Image must be at most 16 MB", "validation_error")
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Could not read uploaded image", "validation_error")
		return nil, false
	}
	return file, true
}

// UploadRecipeImage stores a new image for a recipe the caller manages
func (h *RecipeHandler) UploadRecipeImage(c *gin.Context) {
	recipeID, ok := pathID(c, "id", "Recipe")
	if !ok {
		return
	}

	file, ok := formImage(c)
	if !ok {
		return
	}
	defer file.Close()

	recipe, err := h.imageService.UploadRecipeImage(c.Request.Context(), actor(c), recipeID, file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Image uploaded successfully",
		"image_url": recipe.ImageURL,
		"recipe":    types.NewRecipeResponse(recipe, false),
	})
}
