package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"commerce-service/internal/models"
	"commerce-service/internal/repository"
	"commerce-service/internal/services"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

func respondValidation(c *gin.Context, message, field string) {
	resp := models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "VALIDATION_ERROR",
			Message: message,
		},
	}
	if field != "" {
		resp.Error.Field = &field
	}
	c.JSON(http.StatusBadRequest, resp)
}

// respondRepoError maps persistence errors onto the API taxonomy. Not-found
// stays 404 regardless of entity, conflicts are 409, anything else is a
// generic 500 with the detail kept in the logs.
func respondRepoError(c *gin.Context, logger *logrus.Logger, err error, notFoundMessage string) {
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", notFoundMessage)
	case errors.Is(err, repository.ErrDuplicateSlug):
		respondError(c, http.StatusConflict, "DUPLICATE_SLUG", "A product with this slug already exists")
	case errors.Is(err, repository.ErrDuplicateEmail):
		respondError(c, http.StatusConflict, "DUPLICATE_EMAIL", "This email is already registered")
	case errors.As(err, &validationErr):
		respondValidation(c, validationErr.Message, validationErr.Field)
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("Storage operation failed")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
