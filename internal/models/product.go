package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Gender represents the audience a product is aimed at
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
	GenderKids   Gender = "kids"
)

// Dimension represents variation dimensions stored as JSONB
type Dimension struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (d Dimension) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *Dimension) Scan(value interface{}) error {
	if value == nil {
		*d = Dimension{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, d)
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

// Product represents a vendor-owned catalog product
type Product struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string      `json:"name" gorm:"not null;index"`
	Slug         string      `json:"slug" gorm:"not null;uniqueIndex:idx_products_slug"`
	Gender       *Gender     `json:"gender,omitempty"`
	VendorID     uuid.UUID   `json:"vendorId" gorm:"type:uuid;not null;index:idx_products_vendor"`
	CategoryID   uuid.UUID   `json:"categoryId" gorm:"type:uuid;not null;index:idx_products_category"`
	Description  string      `json:"description" gorm:"type:text;not null"`
	Images       ImageMap    `json:"images" gorm:"type:jsonb"`
	VariationIDs StringArray `json:"variations" gorm:"column:variation_ids;type:jsonb"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// Variation represents a purchasable variation of a product
type Variation struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID      uuid.UUID  `json:"productId" gorm:"type:uuid;not null;index:idx_variations_product"`
	VendorID       uuid.UUID  `json:"vendorId" gorm:"type:uuid;not null;index:idx_variations_vendor"`
	Price          float64    `json:"price" gorm:"not null"`
	Stock          int        `json:"stock" gorm:"not null;default:0"`
	Size           *string    `json:"size,omitempty" gorm:"index"`
	Color          *string    `json:"color,omitempty" gorm:"index"`
	Images         ImageMap   `json:"images" gorm:"type:jsonb"`
	Weight         *float64   `json:"weight,omitempty"`
	Dimension      *Dimension `json:"dimension,omitempty" gorm:"type:jsonb"`
	OfferPrice     *float64   `json:"offerPrice,omitempty"`
	OfferStartDate *time.Time `json:"offerStartDate,omitempty"`
	OfferEndDate   *time.Time `json:"offerEndDate,omitempty"`
	Margin         *float64   `json:"margin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Variation) TableName() string {
	return "variations"
}

// CreateProductRequest represents the multipart form for product creation
type CreateProductRequest struct {
	Name        string  `form:"name" binding:"required"`
	Slug        string  `form:"slug"`
	Description string  `form:"description" binding:"required"`
	CategoryID  string  `form:"categoryId" binding:"required"`
	Gender      *Gender `form:"gender"`
}

// UpdateProductRequest represents a sparse product update
type UpdateProductRequest struct {
	Name        *string `form:"name"`
	Slug        *string `form:"slug"`
	Description *string `form:"description"`
	CategoryID  *string `form:"categoryId"`
	Gender      *Gender `form:"gender"`
}

// CreateVariationRequest represents the multipart form for variation creation
type CreateVariationRequest struct {
	ProductID      string     `form:"productId" binding:"required"`
	Price          *float64   `form:"price" binding:"required"`
	Stock          *int       `form:"stock" binding:"required"`
	Size           *string    `form:"size"`
	Color          *string    `form:"color"`
	Weight         *float64   `form:"weight"`
	DimensionX     *float64   `form:"dimensionX"`
	DimensionY     *float64   `form:"dimensionY"`
	DimensionZ     *float64   `form:"dimensionZ"`
	OfferPrice     *float64   `form:"offerPrice"`
	OfferStartDate *time.Time `form:"offerStartDate" time_format:"2006-01-02"`
	OfferEndDate   *time.Time `form:"offerEndDate" time_format:"2006-01-02"`
	Margin         *float64   `form:"margin"`
}

// UpdateVariationRequest represents a sparse variation update
type UpdateVariationRequest struct {
	Price          *float64   `form:"price"`
	Stock          *int       `form:"stock"`
	Size           *string    `form:"size"`
	Color          *string    `form:"color"`
	Weight         *float64   `form:"weight"`
	DimensionX     *float64   `form:"dimensionX"`
	DimensionY     *float64   `form:"dimensionY"`
	DimensionZ     *float64   `form:"dimensionZ"`
	OfferPrice     *float64   `form:"offerPrice"`
	OfferStartDate *time.Time `form:"offerStartDate" time_format:"2006-01-02"`
	OfferEndDate   *time.Time `form:"offerEndDate" time_format:"2006-01-02"`
	Margin         *float64   `form:"margin"`
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCategoryRequest represents a category update request
type UpdateCategoryRequest struct {
	Name *string `json:"name"`
}

// ProductSummary decorates a product with its cheapest variation price.
// LowestPrice is nil when the product has no variations yet.
type ProductSummary struct {
	Product
	LowestPrice *float64 `json:"lowestPrice"`
}

// ProductDetail is the full read model for a single product.
type ProductDetail struct {
	Product
	LowestPrice *float64    `json:"lowestPrice"`
	Variations  []Variation `json:"variationDetails"`
	Vendor      *UserPublic `json:"vendor,omitempty"`
	Category    *Category   `json:"category,omitempty"`
}

// ProductListResponse represents a paginated product list
type ProductListResponse struct {
	Products   []ProductSummary `json:"products"`
	Pagination PaginationInfo   `json:"pagination"`
}

// FilterParams carries the raw catalog filter query values. Numeric and id
// fields stay strings until validated by the filter service.
type FilterParams struct {
	StartPrice string `form:"startPrice"`
	EndPrice   string `form:"endPrice"`
	Size       string `form:"size"`
	Color      string `form:"color"`
	VendorID   string `form:"vendorId"`
	CategoryID string `form:"categoryId"`
	ProductID  string `form:"productId"`
	Page       string `form:"page"`
	Limit      string `form:"limit"`
}

// FilterRow is one flattened (product, variation) pair. Variation fields are
// nil for products that have no variations yet.
type FilterRow struct {
	ProductID       uuid.UUID  `json:"productId"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	ProductImages   ImageMap   `json:"productImages"`
	VendorID        uuid.UUID  `json:"vendorId"`
	CategoryID      uuid.UUID  `json:"categoryId"`
	VariationID     *uuid.UUID `json:"variationId"`
	VariationImages ImageMap   `json:"variationImages,omitempty"`
	Price           *float64   `json:"price"`
	OfferPrice      *float64   `json:"offerPrice,omitempty"`
	Size            *string    `json:"size"`
	Color           *string    `json:"color"`
}
