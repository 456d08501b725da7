package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-service/internal/models"
	"commerce-service/internal/repository"
)

type CategoriesHandler struct {
	catalog repository.CatalogRepositoryInterface
	logger  *logrus.Logger
}

func NewCategoriesHandler(catalog repository.CatalogRepositoryInterface, logger *logrus.Logger) *CategoriesHandler {
	return &CategoriesHandler{catalog: catalog, logger: logger}
}

// CreateCategory creates a category (admin only)
func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	category := &models.Category{Name: req.Name}
	if err := h.catalog.CreateCategory(category); err != nil {
		respondRepoError(c, h.logger, err, "Category not found")
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Message: "Category created successfully",
		Data:    category,
	})
}

// GetCategory returns one category
func (h *CategoriesHandler) GetCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid category id", "id")
		return
	}

	category, err := h.catalog.GetCategoryByID(categoryID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Category not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Category retrieved successfully",
		Data:    category,
	})
}

// ListCategories returns all categories
func (h *CategoriesHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories()
	if err != nil {
		respondRepoError(c, h.logger, err, "Categories not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}

// UpdateCategory renames a category (admin only)
func (h *CategoriesHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid category id", "id")
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}
	if req.Name == nil {
		respondValidation(c, "No fields to update", "")
		return
	}

	if err := h.catalog.UpdateCategory(categoryID, map[string]interface{}{"name": *req.Name}); err != nil {
		respondRepoError(c, h.logger, err, "Category not found")
		return
	}

	category, err := h.catalog.GetCategoryByID(categoryID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Category not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Category updated successfully",
		Data:    category,
	})
}

// DeleteCategory removes a category (admin only)
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid category id", "id")
		return
	}

	if err := h.catalog.DeleteCategory(categoryID); err != nil {
		respondRepoError(c, h.logger, err, "Category not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Category deleted successfully",
	})
}
