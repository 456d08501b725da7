package repository

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	slugify "github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"commerce-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute  // Single product cache
	ProductListCacheTTL = 2 * time.Minute  // Product list cache (shorter due to frequent changes)
	CategoryCacheTTL    = 30 * time.Minute // Categories rarely change
)

// ErrDuplicateSlug is returned when a product slug is already taken by
// another product. Slugs are unique across all vendors.
var ErrDuplicateSlug = errors.New("slug already in use")

// CatalogRepositoryInterface defines catalog persistence operations
type CatalogRepositoryInterface interface {
	CreateProduct(product *models.Product) error
	GetProductByID(productID uuid.UUID) (*models.Product, error)
	GetProductBySlug(slug string) (*models.Product, error)
	GetProductForVendor(productID, vendorID uuid.UUID) (*models.Product, error)
	ListProducts(page, limit int) ([]models.Product, int64, error)
	ListProductsByVendor(vendorID uuid.UUID, page, limit int) ([]models.Product, int64, error)
	ListProductsByCategory(categoryID uuid.UUID, page, limit int) ([]models.Product, int64, error)
	ListProductsFiltered(vendorID, categoryID, productID *uuid.UUID) ([]models.Product, error)
	UpdateProduct(productID uuid.UUID, updates map[string]interface{}) error
	DeleteProductCascade(product *models.Product) error

	AddVariation(product *models.Product, variation *models.Variation) error
	GetVariationByID(variationID uuid.UUID) (*models.Variation, error)
	ListVariations() ([]models.Variation, error)
	ListVariationsByProduct(productID uuid.UUID) ([]models.Variation, error)
	ListVariationsForProducts(productIDs []uuid.UUID) (map[uuid.UUID][]models.Variation, error)
	UpdateVariation(variationID uuid.UUID, updates map[string]interface{}) error
	DeleteVariation(product *models.Product, variation *models.Variation) error
	LowestPrice(productID uuid.UUID) (*float64, error)
	LowestPrices(productIDs []uuid.UUID) (map[uuid.UUID]float64, error)

	CreateCategory(category *models.Category) error
	GetCategoryByID(categoryID uuid.UUID) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	UpdateCategory(categoryID uuid.UUID, updates map[string]interface{}) error
	DeleteCategory(categoryID uuid.UUID) error
}

type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB, redis *redis.Client) *CatalogRepository {
	repo := &CatalogRepository{
		db:    db,
		redis: redis,
	}

	// Initialize CacheLayer with the existing Redis client
	if redis != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 5000,
			L1TTL:      30 * time.Second,
			DefaultTTL: ProductCacheTTL,
			KeyPrefix:  "commerce:catalog:",
		}
		repo.cache = cache.NewCacheLayerFromClient(redis, cacheConfig)
	}

	return repo
}

// generateListCacheKey creates a deterministic cache key for list queries
func generateListCacheKey(prefix string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// invalidateProductCaches invalidates all caches related to a product
func (r *CatalogRepository) invalidateProductCaches(ctx context.Context, productID uuid.UUID) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, fmt.Sprintf("product:%s", productID.String()))
	_ = r.cache.DeletePattern(ctx, "products:list:*")
}

func (r *CatalogRepository) invalidateCategoryCaches(ctx context.Context) {
	if r.cache == nil {
		return
	}
	_ = r.cache.DeletePattern(ctx, "categories:*")
}

// Product CRUD Operations

// CreateProduct creates a new product. Slugs are unique across the whole
// catalog; a taken slug returns ErrDuplicateSlug.
func (r *CatalogRepository) CreateProduct(product *models.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	// Generate slug from name if not provided
	if product.Slug == "" {
		product.Slug = fmt.Sprintf("%s-%s", slugify.Make(product.Name), product.ID.String()[:8])
	}

	taken, err := r.slugTaken(product.Slug, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateSlug
	}

	if product.Images == nil {
		product.Images = make(models.ImageMap)
	}
	if product.VariationIDs == nil {
		product.VariationIDs = make(models.StringArray, 0)
	}

	err = r.db.Create(product).Error
	if err == nil {
		r.invalidateProductCaches(context.Background(), product.ID)
	}
	return err
}

func (r *CatalogRepository) slugTaken(slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetProductByID retrieves a product by ID with caching
func (r *CatalogRepository) GetProductByID(productID uuid.UUID) (*models.Product, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("product:%s", productID.String())

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	if err := r.db.Where("id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		data, err := json.Marshal(product)
		if err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductCacheTTL)
		}
	}

	return &product, nil
}

// GetProductBySlug retrieves a product by its slug
func (r *CatalogRepository) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductForVendor retrieves a product scoped to its owning vendor.
// Products owned by other vendors surface as not found, not forbidden.
func (r *CatalogRepository) GetProductForVendor(productID, vendorID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("id = ? AND vendor_id = ?", productID, vendorID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *CatalogRepository) listProducts(scope func(*gorm.DB) *gorm.DB, page, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := scope(r.db.Model(&models.Product{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	query := scope(r.db.Model(&models.Product{})).Order("created_at DESC")
	if limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListProducts returns all products, newest first, with pagination
func (r *CatalogRepository) ListProducts(page, limit int) ([]models.Product, int64, error) {
	return r.listProducts(func(q *gorm.DB) *gorm.DB { return q }, page, limit)
}

// ListProductsByVendor returns a vendor's products with pagination
func (r *CatalogRepository) ListProductsByVendor(vendorID uuid.UUID, page, limit int) ([]models.Product, int64, error) {
	return r.listProducts(func(q *gorm.DB) *gorm.DB {
		return q.Where("vendor_id = ?", vendorID)
	}, page, limit)
}

// ListProductsByCategory returns a category's products with pagination
func (r *CatalogRepository) ListProductsByCategory(categoryID uuid.UUID, page, limit int) ([]models.Product, int64, error) {
	return r.listProducts(func(q *gorm.DB) *gorm.DB {
		return q.Where("category_id = ?", categoryID)
	}, page, limit)
}

// ListProductsFiltered returns products matching the given exact-id
// predicates. Nil predicates are skipped; price/size/color filtering happens
// downstream over the flattened rows.
func (r *CatalogRepository) ListProductsFiltered(vendorID, categoryID, productID *uuid.UUID) ([]models.Product, error) {
	query := r.db.Model(&models.Product{})
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if productID != nil {
		query = query.Where("id = ?", *productID)
	}

	var products []models.Product
	if err := query.Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProduct applies a sparse update. Slug changes are checked for
// collisions with other products first.
func (r *CatalogRepository) UpdateProduct(productID uuid.UUID, updates map[string]interface{}) error {
	if slug, ok := updates["slug"].(string); ok {
		taken, err := r.slugTaken(slug, productID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateSlug
		}
	}

	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Product{}).Where("id = ?", productID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateProductCaches(context.Background(), productID)
	return nil
}

// DeleteProductCascade removes a product and all of its variations in one
// transaction. Image files are the caller's concern.
func (r *CatalogRepository) DeleteProductCascade(product *models.Product) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Variation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", product.ID).Error
	})
	if err != nil {
		return err
	}

	r.invalidateProductCaches(context.Background(), product.ID)
	return nil
}

// Variation Operations

// AddVariation creates a variation and links it to its parent product in one
// transaction so the bidirectional reference never half-exists.
func (r *CatalogRepository) AddVariation(product *models.Product, variation *models.Variation) error {
	if variation.ID == uuid.Nil {
		variation.ID = uuid.New()
	}
	variation.ProductID = product.ID
	variation.VendorID = product.VendorID
	variation.CreatedAt = time.Now()
	variation.UpdatedAt = time.Now()
	if variation.Images == nil {
		variation.Images = make(models.ImageMap)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(variation).Error; err != nil {
			return err
		}
		ids := append(models.StringArray{}, product.VariationIDs...)
		ids = append(ids, variation.ID.String())
		return tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Updates(map[string]interface{}{"variation_ids": ids, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return err
	}

	product.VariationIDs = append(product.VariationIDs, variation.ID.String())
	r.invalidateProductCaches(context.Background(), product.ID)
	return nil
}

// GetVariationByID retrieves a single variation
func (r *CatalogRepository) GetVariationByID(variationID uuid.UUID) (*models.Variation, error) {
	var variation models.Variation
	if err := r.db.Where("id = ?", variationID).First(&variation).Error; err != nil {
		return nil, err
	}
	return &variation, nil
}

// ListVariations returns every variation in the store
func (r *CatalogRepository) ListVariations() ([]models.Variation, error) {
	var variations []models.Variation
	if err := r.db.Order("created_at ASC").Find(&variations).Error; err != nil {
		return nil, err
	}
	return variations, nil
}

// ListVariationsByProduct returns all variations of a product
func (r *CatalogRepository) ListVariationsByProduct(productID uuid.UUID) ([]models.Variation, error) {
	var variations []models.Variation
	if err := r.db.Where("product_id = ?", productID).Order("created_at ASC").Find(&variations).Error; err != nil {
		return nil, err
	}
	return variations, nil
}

// ListVariationsForProducts returns variations for a batch of products in a
// single query, grouped by product id.
func (r *CatalogRepository) ListVariationsForProducts(productIDs []uuid.UUID) (map[uuid.UUID][]models.Variation, error) {
	grouped := make(map[uuid.UUID][]models.Variation, len(productIDs))
	if len(productIDs) == 0 {
		return grouped, nil
	}

	var variations []models.Variation
	if err := r.db.Where("product_id IN ?", productIDs).Order("created_at ASC").Find(&variations).Error; err != nil {
		return nil, err
	}
	for _, v := range variations {
		grouped[v.ProductID] = append(grouped[v.ProductID], v)
	}
	return grouped, nil
}

// UpdateVariation applies a sparse update to a variation
func (r *CatalogRepository) UpdateVariation(variationID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Variation{}).Where("id = ?", variationID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	var variation models.Variation
	if err := r.db.Select("product_id").Where("id = ?", variationID).First(&variation).Error; err == nil {
		r.invalidateProductCaches(context.Background(), variation.ProductID)
	}
	return nil
}

// DeleteVariation removes a variation and unlinks it from its parent product
// in one transaction.
func (r *CatalogRepository) DeleteVariation(product *models.Product, variation *models.Variation) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Variation{}, "id = ?", variation.ID).Error; err != nil {
			return err
		}
		ids := make(models.StringArray, 0, len(product.VariationIDs))
		for _, id := range product.VariationIDs {
			if id != variation.ID.String() {
				ids = append(ids, id)
			}
		}
		return tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Updates(map[string]interface{}{"variation_ids": ids, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return err
	}

	r.invalidateProductCaches(context.Background(), product.ID)
	return nil
}

// LowestPrice returns the cheapest variation price for a product, or nil
// when the product has no variations.
func (r *CatalogRepository) LowestPrice(productID uuid.UUID) (*float64, error) {
	var min sql.NullFloat64
	err := r.db.Model(&models.Variation{}).
		Where("product_id = ?", productID).
		Select("MIN(price)").
		Row().Scan(&min)
	if err != nil {
		return nil, err
	}
	if !min.Valid {
		return nil, nil
	}
	return &min.Float64, nil
}

// LowestPrices batch-computes cheapest variation prices. Products without
// variations are absent from the result map.
func (r *CatalogRepository) LowestPrices(productIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	prices := make(map[uuid.UUID]float64, len(productIDs))
	if len(productIDs) == 0 {
		return prices, nil
	}

	rows, err := r.db.Model(&models.Variation{}).
		Where("product_id IN ?", productIDs).
		Select("product_id, MIN(price)").
		Group("product_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var productID uuid.UUID
		var price float64
		if err := rows.Scan(&productID, &price); err != nil {
			return nil, err
		}
		prices[productID] = price
	}
	return prices, rows.Err()
}

// Category Operations

// CreateCategory creates a new category
func (r *CatalogRepository) CreateCategory(category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	err := r.db.Create(category).Error
	if err == nil {
		r.invalidateCategoryCaches(context.Background())
	}
	return err
}

// GetCategoryByID retrieves a category by ID
func (r *CatalogRepository) GetCategoryByID(categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all categories, cached
func (r *CatalogRepository) ListCategories() ([]models.Category, error) {
	ctx := context.Background()
	cacheKey := generateListCacheKey("categories:list", "all")

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var categories []models.Category
			if err := json.Unmarshal([]byte(val), &categories); err == nil {
				return categories, nil
			}
		}
	}

	var categories []models.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		data, err := json.Marshal(categories)
		if err == nil {
			r.redis.Set(ctx, cacheKey, data, CategoryCacheTTL)
		}
	}

	return categories, nil
}

// UpdateCategory applies a sparse update to a category
func (r *CatalogRepository) UpdateCategory(categoryID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Category{}).Where("id = ?", categoryID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCategoryCaches(context.Background())
	return nil
}

// DeleteCategory removes a category
func (r *CatalogRepository) DeleteCategory(categoryID uuid.UUID) error {
	result := r.db.Delete(&models.Category{}, "id = ?", categoryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCategoryCaches(context.Background())
	return nil
}
