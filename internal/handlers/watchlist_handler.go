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

type WatchlistHandler struct {
	customers repository.CustomersRepositoryInterface
	catalog   repository.CatalogRepositoryInterface
	logger    *logrus.Logger
}

func NewWatchlistHandler(customers repository.CustomersRepositoryInterface, catalog repository.CatalogRepositoryInterface, logger *logrus.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		customers: customers,
		catalog:   catalog,
		logger:    logger,
	}
}

// AddToWatchlist saves a (product, variation) pair. An existing entry for
// the same pair is replaced, never duplicated.
func (h *WatchlistHandler) AddToWatchlist(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.AddToWatchlistRequest
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

	watchlist, err := h.customers.GetWatchlist(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Watchlist not found")
		return
	}

	watchlist.Items = services.UpsertWatchlistItem(watchlist.Items, models.WatchlistItem{
		ProductID:   productID.String(),
		VariationID: variationID.String(),
	})
	if err := h.customers.SaveWatchlist(watchlist); err != nil {
		respondRepoError(c, h.logger, err, "Watchlist not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Item added to watchlist",
		Data:    watchlist,
	})
}

// GetWatchlist returns the caller's watchlist hydrated with live catalog
// records
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	watchlist, err := h.customers.GetWatchlist(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Watchlist not found")
		return
	}

	response := models.WatchlistResponse{
		ID:        watchlist.ID,
		UserID:    watchlist.UserID,
		Items:     make([]models.WatchlistLineDetail, 0, len(watchlist.Items)),
		UpdatedAt: watchlist.UpdatedAt,
	}

	for _, entry := range watchlist.Items {
		detail := models.WatchlistLineDetail{WatchlistItem: entry}
		if productID, err := uuid.Parse(entry.ProductID); err == nil {
			if product, err := h.catalog.GetProductByID(productID); err == nil {
				summary := models.ProductSummary{Product: *product}
				if lowest, err := h.catalog.LowestPrice(productID); err == nil {
					summary.LowestPrice = lowest
				}
				detail.Product = &summary
			}
		}
		if variationID, err := uuid.Parse(entry.VariationID); err == nil {
			if variation, err := h.catalog.GetVariationByID(variationID); err == nil {
				detail.Variation = variation
			}
		}
		response.Items = append(response.Items, detail)
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Watchlist retrieved successfully",
		Data:    response,
	})
}

// RemoveFromWatchlist drops one (product, variation) entry
func (h *WatchlistHandler) RemoveFromWatchlist(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	productID := c.Param("productId")
	variationID := c.Param("variationId")

	watchlist, err := h.customers.GetWatchlist(userID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Watchlist not found")
		return
	}

	items, found := services.RemoveWatchlistItem(watchlist.Items, productID, variationID)
	if !found {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Watchlist item not found")
		return
	}

	watchlist.Items = items
	if err := h.customers.SaveWatchlist(watchlist); err != nil {
		respondRepoError(c, h.logger, err, "Watchlist not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Watchlist item removed",
		Data:    watchlist,
	})
}
