package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cookeasy/backend/config"
	"github.com/cookeasy/backend/internal/middleware"
	"github.com/cookeasy/backend/internal/service"
	"github.com/cookeasy/backend/internal/types"
)

// errorJSON writes the standard {"message", "error"} body
func errorJSON(c *gin.Context, status int, message, code string) {
	c.JSON(status, gin.H{"message": message, "error": code})
}

// respondError maps service errors onto HTTP statuses. Anything unrecognized
// is logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	var validation *service.ValidationError
	var duplicate *service.DuplicateError
	var missing *service.NotFoundError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"message": validation.Message, "error": "validation_error", "field": validation.Field})
	case errors.As(err, &duplicate):
		errorJSON(c, http.StatusBadRequest, duplicate.Message, "duplicate")
	case errors.As(err, &missing):
		errorJSON(c, http.StatusNotFound, missing.Error(), "not_found")
	case errors.Is(err, service.ErrNotFound):
		errorJSON(c, http.StatusNotFound, "Resource not found", "not_found")
	case errors.Is(err, service.ErrForbidden):
		errorJSON(c, http.StatusForbidden, "Insufficient permissions", "forbidden")
	case errors.Is(err, service.ErrInvalidCredentials):
		errorJSON(c, http.StatusUnauthorized, "Invalid email or password", "invalid_credentials")
	case errors.Is(err, service.ErrAccountDisabled):
		errorJSON(c, http.StatusUnauthorized, "Account is deactivated", "account_disabled")
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenRevoked):
		errorJSON(c, http.StatusUnauthorized, "Invalid or expired token", "unauthorized")
	case errors.Is(err, service.ErrStorageDisabled), errors.Is(err, config.ErrStorageDisabled):
		errorJSON(c, http.StatusServiceUnavailable, "Image uploads are not available", "storage_disabled")
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		errorJSON(c, http.StatusInternalServerError, "Internal server error", "internal_error")
	}
}

func init() {
	// Report validation failures by their JSON names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON decodes and validates the body into dst, answering 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		c.JSON(http.StatusBadRequest, gin.H{
			"message": validationMessage(fe),
			"error":   "validation_error",
			"field":   fe.Field(),
		})
		return false
	}
	errorJSON(c, http.StatusBadRequest, "Invalid request body", err.Error())
	return false
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof", "oneofci":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexcolor":
		return field + " must be a hex color"
	default:
		return field + " is invalid"
	}
}

// pathID parses a UUID route parameter, answering 404 when it is malformed
func pathID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		errorJSON(c, http.StatusNotFound, resource+" not found", "not_found")
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional UUID query parameter
func queryID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid "+key, "validation_error")
		return nil, false
	}
	return &id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}

// pageRequest reads page and per_page
func pageRequest(c *gin.Context, def, max int) types.PageRequest {
	return types.NewPageRequest(queryInt(c, "page", 1), queryInt(c, "per_page", 0), def, max)
}

// callerID returns the authenticated user id. Routes using it sit behind AuthMiddleware.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		errorJSON(c, http.StatusUnauthorized, "Authentication required", "unauthorized")
	}
	return id, ok
}

// actor returns the caller for ownership checks, or nil when anonymous
func actor(c *gin.Context) *service.Actor {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	return &service.Actor{ID: id, Role: middleware.Role(c)}
}

func paginated(message, key string, items interface{}, p types.Pagination) gin.H {
	return gin.H{"message": message, key: items, "pagination": p}
}
