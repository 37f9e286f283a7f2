package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cookeasy/backend/internal/models"
)

// MaxImageSize caps uploaded images at 16MB
const MaxImageSize = 16 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore is the slice of S3 the image service needs
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	DeleteObject(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// ImageService stores recipe and profile images in object storage
type ImageService struct {
	db    *gorm.DB
	store ObjectStore
}

var _ IImageService = (*ImageService)(nil)

// NewImageService accepts a nil store; uploads then fail with ErrStorageDisabled
func NewImageService(db *gorm.DB, store ObjectStore) *ImageService {
	return &ImageService{db: db, store: store}
}

// UploadRecipeImage replaces a recipe's image; only its author or an admin may do so
func (s *ImageService) UploadRecipeImage(ctx context.Context, actor *Actor, recipeID uuid.UUID, file io.Reader) (*models.Recipe, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	var recipe models.Recipe
	db := s.db.WithContext(ctx)
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Recipe")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if !actor.CanManage(&recipe) {
		return nil, ErrForbidden
	}

	url, err := s.upload(ctx, path.Join("recipes", recipeID.String()), file)
	if err != nil {
		return nil, err
	}
	previous := recipe.ImageURL
	if err := db.Model(&recipe).Update("image_url", url).Error; err != nil {
		return nil, fmt.Errorf("failed to store image url: %w", err)
	}
	recipe.ImageURL = url
	s.discard(ctx, previous)
	return &recipe, nil
}

// UploadProfileImage replaces the caller's profile picture
func (s *ImageService) UploadProfileImage(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	var user models.User
	db := s.db.WithContext(ctx)
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	url, err := s.upload(ctx, path.Join("profiles", userID.String()), file)
	if err != nil {
		return nil, err
	}
	previous := user.ProfileImage
	if err := db.Model(&user).Update("profile_image", url).Error; err != nil {
		return nil, fmt.Errorf("failed to store image url: %w", err)
	}
	user.ProfileImage = url
	s.discard(ctx, previous)
	return &user, nil
}

// upload sniffs the content type, enforces the size cap and stores the bytes
func (s *ImageService) upload(ctx context.Context, prefix string, file io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", invalid("image", "Image file is empty")
	}
	if len(data) > MaxImageSize {
		return "", invalid("image", "Image must be at most %d MB", MaxImageSize>>20)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", invalid("image", "Unsupported image type %s", contentType)
	}

	key := path.Join(prefix, uuid.NewString()+ext)
	return s.store.PutObject(ctx, key, bytes.NewReader(data), contentType)
}

// discard best-effort deletes an image this service previously stored
func (s *ImageService) discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if key, ok := s.store.KeyFromURL(url); ok {
		_ = s.store.DeleteObject(ctx, key)
	}
}
