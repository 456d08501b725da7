package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CartItem is one line in a cart, keyed by (ProductID, VariationID).
// Price, Thumbnail, Size and Color are snapshots taken when the line was
// added or last touched.
type CartItem struct {
	ProductID   string    `json:"productId"`
	VariationID string    `json:"variationId"`
	Count       int       `json:"count"`
	Price       float64   `json:"price"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	Size        *string   `json:"size,omitempty"`
	Color       *string   `json:"color,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
}

// CartItems stores cart lines as a JSONB array
type CartItems []CartItem

func (c CartItems) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]CartItem{})
	}
	return json.Marshal(c)
}

func (c *CartItems) Scan(value interface{}) error {
	if value == nil {
		*c = make(CartItems, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// Cart represents a user's cart (one row per user)
type Cart struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_carts_user"`
	Items     CartItems `json:"items" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Cart) TableName() string {
	return "carts"
}

// WatchlistItem is one saved (product, variation) pair
type WatchlistItem struct {
	ProductID   string    `json:"productId"`
	VariationID string    `json:"variationId"`
	AddedAt     time.Time `json:"addedAt"`
}

// WatchlistItems stores watchlist entries as a JSONB array
type WatchlistItems []WatchlistItem

func (w WatchlistItems) Value() (driver.Value, error) {
	if w == nil {
		return json.Marshal([]WatchlistItem{})
	}
	return json.Marshal(w)
}

func (w *WatchlistItems) Scan(value interface{}) error {
	if value == nil {
		*w = make(WatchlistItems, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, w)
}

// Watchlist represents a user's watchlist (one row per user)
type Watchlist struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_watchlists_user"`
	Items     WatchlistItems `json:"items" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Watchlist) TableName() string {
	return "watchlists"
}

// AddToCartRequest represents an add-to-cart request
type AddToCartRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	VariationID string `json:"variationId" binding:"required"`
	Count       int    `json:"count" binding:"required,gt=0"`
}

// UpdateCartItemRequest represents a cart line quantity change
type UpdateCartItemRequest struct {
	VariationID string `json:"variationId" binding:"required"`
	Count       int    `json:"count" binding:"required,gt=0"`
}

// RemoveCartItemRequest identifies the cart line to remove
type RemoveCartItemRequest struct {
	VariationID string `json:"variationId" binding:"required"`
}

// AddToWatchlistRequest represents an add-to-watchlist request
type AddToWatchlistRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	VariationID string `json:"variationId" binding:"required"`
}

// CartLineDetail hydrates a cart line with live catalog records
type CartLineDetail struct {
	CartItem
	Product   *ProductSummary `json:"product,omitempty"`
	Variation *Variation      `json:"variation,omitempty"`
}

// CartResponse is the hydrated cart read model
type CartResponse struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Items     []CartLineDetail `json:"items"`
	ItemCount int              `json:"itemCount"`
	Subtotal  float64          `json:"subtotal"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// WatchlistLineDetail hydrates a watchlist entry with live catalog records
type WatchlistLineDetail struct {
	WatchlistItem
	Product   *ProductSummary `json:"product,omitempty"`
	Variation *Variation      `json:"variation,omitempty"`
}

// WatchlistResponse is the hydrated watchlist read model
type WatchlistResponse struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uuid.UUID             `json:"userId"`
	Items     []WatchlistLineDetail `json:"items"`
	UpdatedAt time.Time             `json:"updatedAt"`
}
