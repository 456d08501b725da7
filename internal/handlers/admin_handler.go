package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"commerce-service/internal/middleware"
	"commerce-service/internal/models"
	"commerce-service/internal/repository"
)

// AdminHandler exposes the superadmin surface: account management, vendor
// listings, and catalog mutations that bypass vendor scoping. All routes
// behind it require the admin role.
type AdminHandler struct {
	customers  repository.CustomersRepositoryInterface
	catalog    repository.CatalogRepositoryInterface
	products   *ProductsHandler
	variations *VariationsHandler
	logger     *logrus.Logger
}

func NewAdminHandler(
	customers repository.CustomersRepositoryInterface,
	catalog repository.CatalogRepositoryInterface,
	products *ProductsHandler,
	variations *VariationsHandler,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		customers:  customers,
		catalog:    catalog,
		products:   products,
		variations: variations,
		logger:     logger,
	}
}

// CreateUser provisions an account with any role
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
	}
	if req.Verified != nil {
		user.Verified = *req.Verified
	}
	if err := h.customers.CreateUser(user); err != nil {
		respondRepoError(c, h.logger, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Message: "User created successfully",
		Data:    user.Public(),
	})
}

// GetUser returns one account
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid user id", "id")
		return
	}

	user, err := h.customers.GetUserByID(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "User retrieved successfully",
		Data:    user.Public(),
	})
}

func (h *AdminHandler) listUsers(c *gin.Context, role *models.UserRole) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	search := c.Query("search")

	users, total, err := h.customers.ListUsers(search, role, page, limit)
	if err != nil {
		respondRepoError(c, h.logger, err, "Users not found")
		return
	}

	publics := make([]models.UserPublic, len(users))
	for i := range users {
		publics[i] = users[i].Public()
	}

	c.JSON(http.StatusOK, models.UserListResponse{
		Users:      publics,
		Pagination: models.NewPaginationInfo(page, limit, total),
	})
}

// ListUsers returns accounts with optional name search
func (h *AdminHandler) ListUsers(c *gin.Context) {
	h.listUsers(c, nil)
}

// ListVendors returns vendor accounts
func (h *AdminHandler) ListVendors(c *gin.Context) {
	role := models.RoleVendor
	h.listUsers(c, &role)
}

// UpdateUser applies a sparse update to any account
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid user id", "id")
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Verified != nil {
		updates["verified"] = *req.Verified
	}
	if len(updates) == 0 {
		respondValidation(c, "No fields to update", "")
		return
	}

	if err := h.customers.UpdateUser(userID, updates); err != nil {
		respondRepoError(c, h.logger, err, "User not found")
		return
	}

	user, err := h.customers.GetUserByID(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "User updated successfully",
		Data:    user.Public(),
	})
}

// DeleteUser removes an account and its dependent rows
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid user id", "id")
		return
	}

	if err := h.customers.DeleteUser(userID); err != nil {
		respondRepoError(c, h.logger, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "User deleted successfully",
	})
}

// UpdateProduct updates any product without vendor scoping
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid product id", "id")
		return
	}

	product, err := h.catalog.GetProductByID(productID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	h.products.applyProductUpdate(c, product, middleware.GetUserID(c))
}

// DeleteProduct cascades a product delete without vendor scoping
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid product id", "id")
		return
	}

	product, err := h.catalog.GetProductByID(productID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	h.products.deleteProductCascade(c, product, middleware.GetUserID(c))
}

// UpdateVariation updates any variation without vendor scoping
func (h *AdminHandler) UpdateVariation(c *gin.Context) {
	variationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid variation id", "id")
		return
	}

	variation, err := h.catalog.GetVariationByID(variationID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Variation not found")
		return
	}

	h.variations.applyVariationUpdate(c, variation)
}

// DeleteVariation removes any variation without vendor scoping
func (h *AdminHandler) DeleteVariation(c *gin.Context) {
	variationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid variation id", "id")
		return
	}

	variation, err := h.catalog.GetVariationByID(variationID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Variation not found")
		return
	}
	product, err := h.catalog.GetProductByID(variation.ProductID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	h.variations.deleteVariation(c, product, variation)
}
