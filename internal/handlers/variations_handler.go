package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-service/internal/middleware"
	"commerce-service/internal/models"
	"commerce-service/internal/repository"
	"commerce-service/internal/storage"
)

type VariationsHandler struct {
	catalog repository.CatalogRepositoryInterface
	images  *storage.ImageStore
	logger  *logrus.Logger
}

func NewVariationsHandler(catalog repository.CatalogRepositoryInterface, images *storage.ImageStore, logger *logrus.Logger) *VariationsHandler {
	return &VariationsHandler{
		catalog: catalog,
		images:  images,
		logger:  logger,
	}
}

func (h *VariationsHandler) buildDimension(x, y, z *float64) *models.Dimension {
	if x == nil && y == nil && z == nil {
		return nil
	}
	dim := &models.Dimension{}
	if x != nil {
		dim.X = *x
	}
	if y != nil {
		dim.Y = *y
	}
	if z != nil {
		dim.Z = *z
	}
	return dim
}

// AddVariation creates a variation under a product owned by the caller. The
// parent's variation list is updated in the same transaction.
func (h *VariationsHandler) AddVariation(c *gin.Context) {
	vendorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.CreateVariationRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondValidation(c, "productId must be a valid id", "productId")
		return
	}

	product, err := h.catalog.GetProductForVendor(productID, vendorID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	variation := &models.Variation{
		VendorID:       product.VendorID,
		Price:          *req.Price,
		Stock:          *req.Stock,
		Size:           req.Size,
		Color:          req.Color,
		Weight:         req.Weight,
		Dimension:      h.buildDimension(req.DimensionX, req.DimensionY, req.DimensionZ),
		OfferPrice:     req.OfferPrice,
		OfferStartDate: req.OfferStartDate,
		OfferEndDate:   req.OfferEndDate,
		Margin:         req.Margin,
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		if files := form.File["images"]; len(files) > 0 {
			imageMap, err := h.images.SaveUploads(files)
			if err != nil {
				respondValidation(c, err.Error(), "images")
				return
			}
			variation.Images = imageMap
		}
	}

	if err := h.catalog.AddVariation(product, variation); err != nil {
		if variation.Images != nil {
			h.images.Delete(variation.Images)
		}
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Message: "Variation created successfully",
		Data:    variation,
	})
}

// UpdateVariation applies a sparse update to a variation owned by the
// caller. Uploading images replaces the whole stored set: every old file is
// removed first.
func (h *VariationsHandler) UpdateVariation(c *gin.Context) {
	vendorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}
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
	if _, err := h.catalog.GetProductForVendor(variation.ProductID, vendorID); err != nil {
		respondRepoError(c, h.logger, err, "Variation not found")
		return
	}

	h.applyVariationUpdate(c, variation)
}

func (h *VariationsHandler) applyVariationUpdate(c *gin.Context, variation *models.Variation) {
	var req models.UpdateVariationRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	updates := make(map[string]interface{})
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if dim := h.buildDimension(req.DimensionX, req.DimensionY, req.DimensionZ); dim != nil {
		updates["dimension"] = dim
	}
	if req.OfferPrice != nil {
		updates["offer_price"] = *req.OfferPrice
	}
	if req.OfferStartDate != nil {
		updates["offer_start_date"] = *req.OfferStartDate
	}
	if req.OfferEndDate != nil {
		updates["offer_end_date"] = *req.OfferEndDate
	}
	if req.Margin != nil {
		updates["margin"] = *req.Margin
	}

	var newImages models.ImageMap
	if form, err := c.MultipartForm(); err == nil && form != nil {
		if files := form.File["images"]; len(files) > 0 {
			imageMap, err := h.images.SaveUploads(files)
			if err != nil {
				respondValidation(c, err.Error(), "images")
				return
			}
			newImages = imageMap
			updates["images"] = newImages
		}
	}

	if len(updates) == 0 {
		respondValidation(c, "No fields to update", "")
		return
	}

	if err := h.catalog.UpdateVariation(variation.ID, updates); err != nil {
		if newImages != nil {
			h.images.Delete(newImages)
		}
		respondRepoError(c, h.logger, err, "Variation not found")
		return
	}

	// Replace semantics: drop all previously stored files
	if newImages != nil {
		h.images.Delete(variation.Images)
	}

	updated, err := h.catalog.GetVariationByID(variation.ID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Variation not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Variation updated successfully",
		Data:    updated,
	})
}

// DeleteVariation removes a variation owned by the caller, its stored
// images, and its reference in the parent product.
func (h *VariationsHandler) DeleteVariation(c *gin.Context) {
	vendorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}
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
	product, err := h.catalog.GetProductForVendor(variation.ProductID, vendorID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Variation not found")
		return
	}

	h.deleteVariation(c, product, variation)
}

func (h *VariationsHandler) deleteVariation(c *gin.Context, product *models.Product, variation *models.Variation) {
	h.images.Delete(variation.Images)

	if err := h.catalog.DeleteVariation(product, variation); err != nil {
		respondRepoError(c, h.logger, err, "Variation not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Variation deleted successfully",
	})
}

// GetVariation returns one variation
func (h *VariationsHandler) GetVariation(c *gin.Context) {
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

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Variation retrieved successfully",
		Data:    variation,
	})
}

// ListVariations returns every variation in the store
func (h *VariationsHandler) ListVariations(c *gin.Context) {
	variations, err := h.catalog.ListVariations()
	if err != nil {
		respondRepoError(c, h.logger, err, "Variations not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Variations retrieved successfully",
		Data:    variations,
	})
}

// ListVariationsByProduct returns all variations of a product
func (h *VariationsHandler) ListVariationsByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid product id", "id")
		return
	}

	variations, err := h.catalog.ListVariationsByProduct(productID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Variations not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Variations retrieved successfully",
		Data:    variations,
	})
}
