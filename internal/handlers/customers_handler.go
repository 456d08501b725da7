package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"commerce-service/internal/auth"
	"commerce-service/internal/middleware"
	"commerce-service/internal/models"
	"commerce-service/internal/repository"
)

type CustomersHandler struct {
	customers repository.CustomersRepositoryInterface
	tokens    *auth.TokenManager
	logger    *logrus.Logger
}

func NewCustomersHandler(customers repository.CustomersRepositoryInterface, tokens *auth.TokenManager, logger *logrus.Logger) *CustomersHandler {
	return &CustomersHandler{
		customers: customers,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates a new account. Only user and vendor roles can be
// self-registered; admins are provisioned through the admin API.
func (h *CustomersHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleVendor {
		respondValidation(c, "role must be user or vendor", "role")
		return
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
	if err := h.customers.CreateUser(user); err != nil {
		respondRepoError(c, h.logger, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Message: "Account registered successfully",
		Data:    user.Public(),
	})
}

// Login verifies credentials and issues a bearer token
func (h *CustomersHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	user, err := h.customers.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Role)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Logged in successfully",
		Data: models.LoginResponse{
			Token: token,
			User:  user.Public(),
		},
	})
}

// GetProfile returns the caller's account
func (h *CustomersHandler) GetProfile(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	user, err := h.customers.GetUserByID(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    user.Public(),
	})
}

// UpdateProfile applies a sparse update to the caller's account
func (h *CustomersHandler) UpdateProfile(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.UpdateProfileRequest
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
		Message: "Profile updated successfully",
		Data:    user.Public(),
	})
}

// UpdatePassword changes the caller's password after verifying the old one
func (h *CustomersHandler) UpdatePassword(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	user, err := h.customers.GetUserByID(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "User not found")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Old password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	if err := h.customers.UpdateUser(userID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		respondRepoError(c, h.logger, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Password updated successfully",
	})
}

// Shipping address book

// AddShippingAddress adds an entry to the caller's address book
func (h *CustomersHandler) AddShippingAddress(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.CreateShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	address := &models.ShippingAddress{
		UserID:              userID,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		StreetAddress:       req.StreetAddress,
		Apartment:           req.Apartment,
		CompanyName:         req.CompanyName,
		City:                req.City,
		State:               req.State,
		PostalCode:          req.PostalCode,
		Country:             req.Country,
		Phone:               req.Phone,
		DeliveryInstruction: req.DeliveryInstruction,
	}
	if err := h.customers.CreateShippingAddress(address); err != nil {
		respondRepoError(c, h.logger, err, "Address not found")
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Message: "Shipping address added successfully",
		Data:    address,
	})
}

// ListShippingAddresses returns the caller's address book
func (h *CustomersHandler) ListShippingAddresses(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	addresses, err := h.customers.ListShippingAddresses(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Addresses not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Shipping addresses retrieved successfully",
		Data:    addresses,
	})
}

// UpdateShippingAddress applies a sparse update to one of the caller's
// addresses
func (h *CustomersHandler) UpdateShippingAddress(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid address id", "id")
		return
	}

	var req models.UpdateShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	updates := shippingAddressUpdates(&req)
	if len(updates) == 0 {
		respondValidation(c, "No fields to update", "")
		return
	}

	if err := h.customers.UpdateShippingAddress(addressID, userID, updates); err != nil {
		respondRepoError(c, h.logger, err, "Address not found")
		return
	}

	address, err := h.customers.GetShippingAddress(addressID, userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Address not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Shipping address updated successfully",
		Data:    address,
	})
}

func shippingAddressUpdates(req *models.UpdateShippingAddressRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.StreetAddress != nil {
		updates["street_address"] = *req.StreetAddress
	}
	if req.Apartment != nil {
		updates["apartment"] = *req.Apartment
	}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.PostalCode != nil {
		updates["postal_code"] = *req.PostalCode
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.DeliveryInstruction != nil {
		updates["delivery_instruction"] = *req.DeliveryInstruction
	}
	return updates
}

// DeleteShippingAddress removes one of the caller's addresses
func (h *CustomersHandler) DeleteShippingAddress(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid address id", "id")
		return
	}

	if err := h.customers.DeleteShippingAddress(addressID, userID); err != nil {
		respondRepoError(c, h.logger, err, "Address not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Shipping address deleted successfully",
	})
}

// Billing address

// SetBillingAddress creates or replaces the caller's billing address
func (h *CustomersHandler) SetBillingAddress(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.CreateBillingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	address := &models.BillingAddress{
		UserID:        userID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		StreetAddress: req.StreetAddress,
		Apartment:     req.Apartment,
		CompanyName:   req.CompanyName,
		City:          req.City,
		State:         req.State,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		Phone:         req.Phone,
	}
	if err := h.customers.UpsertBillingAddress(address); err != nil {
		respondRepoError(c, h.logger, err, "Address not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Billing address saved successfully",
		Data:    address,
	})
}

// GetBillingAddress returns the caller's billing address
func (h *CustomersHandler) GetBillingAddress(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	address, err := h.customers.GetBillingAddress(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Billing address not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Billing address retrieved successfully",
		Data:    address,
	})
}

// UpdateBillingAddress applies a sparse update to the caller's billing
// address
func (h *CustomersHandler) UpdateBillingAddress(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.UpdateBillingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.StreetAddress != nil {
		updates["street_address"] = *req.StreetAddress
	}
	if req.Apartment != nil {
		updates["apartment"] = *req.Apartment
	}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.PostalCode != nil {
		updates["postal_code"] = *req.PostalCode
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) == 0 {
		respondValidation(c, "No fields to update", "")
		return
	}

	if err := h.customers.UpdateBillingAddress(userID, updates); err != nil {
		respondRepoError(c, h.logger, err, "Billing address not found")
		return
	}

	address, err := h.customers.GetBillingAddress(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Billing address not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Billing address updated successfully",
		Data:    address,
	})
}

// DeleteBillingAddress removes the caller's billing address
func (h *CustomersHandler) DeleteBillingAddress(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	if err := h.customers.DeleteBillingAddress(userID); err != nil {
		respondRepoError(c, h.logger, err, "Billing address not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Billing address deleted successfully",
	})
}
