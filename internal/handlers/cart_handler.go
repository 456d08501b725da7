package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-service/internal/middleware"
	"commerce-service/internal/models"
	"commerce-service/internal/repository"
	"commerce-service/internal/services"
)

type CartHandler struct {
	customers repository.CustomersRepositoryInterface
	catalog   repository.CatalogRepositoryInterface
	logger    *logrus.Logger
}

func NewCartHandler(customers repository.CustomersRepositoryInterface, catalog repository.CatalogRepositoryInterface, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		customers: customers,
		catalog:   catalog,
		logger:    logger,
	}
}

// AddToCart merges a line into the caller's cart. An existing line for the
// same (product, variation) pair has its count incremented; the price
// snapshot is refreshed from the live variation.
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondValidation(c, "productId must be a valid id", "productId")
		return
	}
	variationID, err := uuid.Parse(req.VariationID)
	if err != nil {
		respondValidation(c, "variationId must be a valid id", "variationId")
		return
	}

	variation, err := h.catalog.GetVariationByID(variationID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Variation not found")
		return
	}
	if variation.ProductID != productID {
		respondValidation(c, "Variation does not belong to the given product", "variationId")
		return
	}
	product, err := h.catalog.GetProductByID(productID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	cart, err := h.customers.GetCart(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Cart not found")
		return
	}

	item := models.CartItem{
		ProductID:   productID.String(),
		VariationID: variationID.String(),
		Count:       req.Count,
		Price:       variation.Price,
		Size:        variation.Size,
		Color:       variation.Color,
	}
	if thumb, ok := variation.Images["image1"]; ok {
		item.Thumbnail = &thumb
	} else if thumb, ok := product.Images["image1"]; ok {
		item.Thumbnail = &thumb
	}

	cart.Items = services.UpsertCartItem(cart.Items, item)
	if err := h.customers.SaveCart(cart); err != nil {
		respondRepoError(c, h.logger, err, "Cart not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Item added to cart",
		Data:    cart,
	})
}

// GetCart returns the caller's cart hydrated with live catalog records
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	cart, err := h.customers.GetCart(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Cart not found")
		return
	}

	response := models.CartResponse{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]models.CartLineDetail, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	response.ItemCount, response.Subtotal = services.CartTotals(cart.Items)

	for _, line := range cart.Items {
		detail := models.CartLineDetail{CartItem: line}
		if productID, err := uuid.Parse(line.ProductID); err == nil {
			if product, err := h.catalog.GetProductByID(productID); err == nil {
				summary := models.ProductSummary{Product: *product}
				if lowest, err := h.catalog.LowestPrice(productID); err == nil {
					summary.LowestPrice = lowest
				}
				detail.Product = &summary
			}
		}
		if variationID, err := uuid.Parse(line.VariationID); err == nil {
			if variation, err := h.catalog.GetVariationByID(variationID); err == nil {
				detail.Variation = variation
			}
		}
		response.Items = append(response.Items, detail)
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Cart retrieved successfully",
		Data:    response,
	})
}

// UpdateCartItem replaces the count of one cart line
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	cart, err := h.customers.GetCart(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Cart not found")
		return
	}

	items, found := services.SetCartItemCount(cart.Items, req.VariationID, req.Count)
	if !found {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Cart item not found")
		return
	}

	cart.Items = items
	if err := h.customers.SaveCart(cart); err != nil {
		respondRepoError(c, h.logger, err, "Cart not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Cart item updated",
		Data:    cart,
	})
}

// RemoveCartItem removes one cart line by variation id
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	variationID := c.Param("variationId")
	cart, err := h.customers.GetCart(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Cart not found")
		return
	}

	items, found := services.RemoveCartItem(cart.Items, variationID)
	if !found {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Cart item not found")
		return
	}

	cart.Items = items
	if err := h.customers.SaveCart(cart); err != nil {
		respondRepoError(c, h.logger, err, "Cart not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Cart item removed",
		Data:    cart,
	})
}

// ClearCart empties the caller's cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	cart, err := h.customers.GetCart(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Cart not found")
		return
	}

	cart.Items = make(models.CartItems, 0)
	if err := h.customers.SaveCart(cart); err != nil {
		respondRepoError(c, h.logger, err, "Cart not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Cart cleared",
		Data:    cart,
	})
}
