package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-service/internal/events"
	"commerce-service/internal/middleware"
	"commerce-service/internal/models"
	"commerce-service/internal/repository"
	"commerce-service/internal/services"
	"commerce-service/internal/storage"
)

type ProductsHandler struct {
	catalog         repository.CatalogRepositoryInterface
	customers       repository.CustomersRepositoryInterface
	images          *storage.ImageStore
	eventsPublisher *events.Publisher
	logger          *logrus.Logger
	defaultPageSize int
	maxPageSize     int
}

func NewProductsHandler(
	catalog repository.CatalogRepositoryInterface,
	customers repository.CustomersRepositoryInterface,
	images *storage.ImageStore,
	eventsPublisher *events.Publisher,
	logger *logrus.Logger,
	defaultPageSize, maxPageSize int,
) *ProductsHandler {
	return &ProductsHandler{
		catalog:         catalog,
		customers:       customers,
		images:          images,
		eventsPublisher: eventsPublisher,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h *ProductsHandler) pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = h.defaultPageSize
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}
	return page, limit
}

func (h *ProductsHandler) formImages(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

// summarize decorates products with their cheapest variation price.
// LowestPrice stays nil for products without variations.
func (h *ProductsHandler) summarize(products []models.Product) ([]models.ProductSummary, error) {
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	prices, err := h.catalog.LowestPrices(ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ProductSummary, len(products))
	for i := range products {
		summaries[i] = models.ProductSummary{Product: products[i]}
		if price, ok := prices[products[i].ID]; ok {
			p := price
			summaries[i].LowestPrice = &p
		}
	}
	return summaries, nil
}

// CreateProduct creates a new product from a multipart form. Requires at
// least one image; the caller becomes the owning vendor.
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	vendorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respondValidation(c, "categoryId must be a valid id", "categoryId")
		return
	}
	if _, err := h.catalog.GetCategoryByID(categoryID); err != nil {
		respondRepoError(c, h.logger, err, "Category not found")
		return
	}

	files := h.formImages(c)
	if len(files) == 0 {
		respondValidation(c, "At least one product image is required", "images")
		return
	}

	imageMap, err := h.images.SaveUploads(files)
	if err != nil {
		respondValidation(c, err.Error(), "images")
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Slug:        strings.TrimSpace(req.Slug),
		Gender:      req.Gender,
		VendorID:    vendorID,
		CategoryID:  categoryID,
		Description: req.Description,
		Images:      imageMap,
	}

	if err := h.catalog.CreateProduct(product); err != nil {
		h.images.Delete(imageMap)
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductCreated(c.Request.Context(), product,
			vendorID.String(), c.ClientIP(), c.Request.UserAgent())
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// UpdateProduct applies a sparse update to a product owned by the caller.
// New images replace the stored image set; old files are removed best-effort
// after the record is written.
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	vendorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid product id", "id")
		return
	}

	product, err := h.catalog.GetProductForVendor(productID, vendorID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	h.applyProductUpdate(c, product, vendorID.String())
}

func (h *ProductsHandler) applyProductUpdate(c *gin.Context, product *models.Product, actorID string) {
	var req models.UpdateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	updates := make(map[string]interface{})
	changed := make([]string, 0, 4)
	if req.Name != nil {
		updates["name"] = *req.Name
		changed = append(changed, "name")
	}
	if req.Slug != nil {
		updates["slug"] = strings.TrimSpace(*req.Slug)
		changed = append(changed, "slug")
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		changed = append(changed, "description")
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
		changed = append(changed, "gender")
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			respondValidation(c, "categoryId must be a valid id", "categoryId")
			return
		}
		if _, err := h.catalog.GetCategoryByID(categoryID); err != nil {
			respondRepoError(c, h.logger, err, "Category not found")
			return
		}
		updates["category_id"] = categoryID
		changed = append(changed, "categoryId")
	}

	var newImages models.ImageMap
	if files := h.formImages(c); len(files) > 0 {
		imageMap, err := h.images.SaveUploads(files)
		if err != nil {
			respondValidation(c, err.Error(), "images")
			return
		}
		newImages = imageMap
		updates["images"] = newImages
		changed = append(changed, "images")
	}

	if len(updates) == 0 {
		respondValidation(c, "No fields to update", "")
		return
	}

	if err := h.catalog.UpdateProduct(product.ID, updates); err != nil {
		if newImages != nil {
			h.images.Delete(newImages)
		}
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	if newImages != nil {
		h.images.Delete(product.Images)
	}

	updated, err := h.catalog.GetProductByID(product.ID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductUpdated(c.Request.Context(), updated, changed,
			actorID, c.ClientIP(), c.Request.UserAgent())
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Product updated successfully",
		Data:    updated,
	})
}

// DeleteProduct removes a product owned by the caller together with its
// variations and stored images. File removal failures are logged, never
// abort the cascade.
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	vendorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid principal")
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid product id", "id")
		return
	}

	product, err := h.catalog.GetProductForVendor(productID, vendorID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	h.deleteProductCascade(c, product, vendorID.String())
}

func (h *ProductsHandler) deleteProductCascade(c *gin.Context, product *models.Product, actorID string) {
	variations, err := h.catalog.ListVariationsByProduct(product.ID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	for i := range variations {
		h.images.Delete(variations[i].Images)
	}
	h.images.Delete(product.Images)

	if err := h.catalog.DeleteProductCascade(product); err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductDeleted(c.Request.Context(), product,
			actorID, c.ClientIP(), c.Request.UserAgent())
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Product deleted successfully",
	})
}

// GetProduct returns one product with variations, lowest price and vendor
// info
func (h *ProductsHandler) GetProduct(c *gin.Context) {
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

	detail, err := h.buildDetail(product)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Product retrieved successfully",
		Data:    detail,
	})
}

// GetProductBySlug returns one product addressed by its slug
func (h *ProductsHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.catalog.GetProductBySlug(c.Param("slug"))
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	detail, err := h.buildDetail(product)
	if err != nil {
		respondRepoError(c, h.logger, err, "Product not found")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Product retrieved successfully",
		Data:    detail,
	})
}

func (h *ProductsHandler) buildDetail(product *models.Product) (*models.ProductDetail, error) {
	variations, err := h.catalog.ListVariationsByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	lowest, err := h.catalog.LowestPrice(product.ID)
	if err != nil {
		return nil, err
	}

	detail := &models.ProductDetail{
		Product:     *product,
		LowestPrice: lowest,
		Variations:  variations,
	}

	if vendor, err := h.customers.GetUserByID(product.VendorID); err == nil {
		public := vendor.Public()
		detail.Vendor = &public
	}
	if category, err := h.catalog.GetCategoryByID(product.CategoryID); err == nil {
		detail.Category = category
	}

	return detail, nil
}

// ListProducts returns all products, newest first, with pagination
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	page, limit := h.pagination(c)

	products, total, err := h.catalog.ListProducts(page, limit)
	if err != nil {
		respondRepoError(c, h.logger, err, "Products not found")
		return
	}

	summaries, err := h.summarize(products)
	if err != nil {
		respondRepoError(c, h.logger, err, "Products not found")
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Products:   summaries,
		Pagination: models.NewPaginationInfo(page, limit, total),
	})
}

// ListProductsByVendor returns one vendor's products
func (h *ProductsHandler) ListProductsByVendor(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("vendorId"))
	if err != nil {
		respondValidation(c, "Invalid vendor id", "vendorId")
		return
	}
	page, limit := h.pagination(c)

	products, total, err := h.catalog.ListProductsByVendor(vendorID, page, limit)
	if err != nil {
		respondRepoError(c, h.logger, err, "Products not found")
		return
	}

	summaries, err := h.summarize(products)
	if err != nil {
		respondRepoError(c, h.logger, err, "Products not found")
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Products:   summaries,
		Pagination: models.NewPaginationInfo(page, limit, total),
	})
}

// ListProductsByCategory returns one category's products
func (h *ProductsHandler) ListProductsByCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		respondValidation(c, "Invalid category id", "categoryId")
		return
	}
	page, limit := h.pagination(c)

	products, total, err := h.catalog.ListProductsByCategory(categoryID, page, limit)
	if err != nil {
		respondRepoError(c, h.logger, err, "Products not found")
		return
	}

	summaries, err := h.summarize(products)
	if err != nil {
		respondRepoError(c, h.logger, err, "Products not found")
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Products:   summaries,
		Pagination: models.NewPaginationInfo(page, limit, total),
	})
}

// FilterProducts evaluates the catalog filter over flattened
// (product, variation) rows. All supplied predicates must match; results
// sort by ascending price when a price bound is present.
func (h *ProductsHandler) FilterProducts(c *gin.Context) {
	var params models.FilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondValidation(c, err.Error(), "")
		return
	}

	h.filterWith(c, params)
}

func (h *ProductsHandler) filterWith(c *gin.Context, params models.FilterParams) {
	criteria, err := services.ParseFilterParams(params)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			respondValidation(c, validationErr.Message, validationErr.Field)
			return
		}
		respondRepoError(c, h.logger, err, "Products not found")
		return
	}

	products, err := h.catalog.ListProductsFiltered(criteria.VendorID, criteria.CategoryID, criteria.ProductID)
	if err != nil {
		respondRepoError(c, h.logger, err, "Products not found")
		return
	}

	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	variations, err := h.catalog.ListVariationsForProducts(ids)
	if err != nil {
		respondRepoError(c, h.logger, err, "Products not found")
		return
	}

	rows := services.ApplyCriteria(services.Flatten(products, variations), criteria)

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Products filtered successfully",
		Data:    rows,
	})
}

// ListProductsBySize answers the single-predicate size lookup over the same
// flattened rows as the generic filter
func (h *ProductsHandler) ListProductsBySize(c *gin.Context) {
	h.filterWith(c, models.FilterParams{Size: c.Param("size")})
}

// ListProductsByColor answers the single-predicate color lookup
func (h *ProductsHandler) ListProductsByColor(c *gin.Context) {
	h.filterWith(c, models.FilterParams{Color: c.Param("color")})
}

// ListProductsByPriceRange answers the inclusive price-range lookup. Rows
// come back sorted ascending by price.
func (h *ProductsHandler) ListProductsByPriceRange(c *gin.Context) {
	h.filterWith(c, models.FilterParams{
		StartPrice: c.Param("startPrice"),
		EndPrice:   c.Param("endPrice"),
	})
}
