package services

import (
	"time"

	"commerce-service/internal/models"
)

// UpsertCartItem merges a new line into cart items. Lines are keyed by
// (productId, variationId): an existing line has its count incremented and
// its price snapshot refreshed, otherwise the line is appended.
func UpsertCartItem(items models.CartItems, item models.CartItem) models.CartItems {
	for i := range items {
		if items[i].ProductID == item.ProductID && items[i].VariationID == item.VariationID {
			items[i].Count += item.Count
			items[i].Price = item.Price
			items[i].Thumbnail = item.Thumbnail
			items[i].Size = item.Size
			items[i].Color = item.Color
			return items
		}
	}
	item.AddedAt = time.Now()
	return append(items, item)
}

// SetCartItemCount replaces the count of the line matching variationID.
// Returns false when no line matches.
func SetCartItemCount(items models.CartItems, variationID string, count int) (models.CartItems, bool) {
	for i := range items {
		if items[i].VariationID == variationID {
			items[i].Count = count
			return items, true
		}
	}
	return items, false
}

// RemoveCartItem drops the line matching variationID. Returns false when no
// line matches.
func RemoveCartItem(items models.CartItems, variationID string) (models.CartItems, bool) {
	for i := range items {
		if items[i].VariationID == variationID {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

// CartTotals computes the item count and subtotal over the stored price
// snapshots.
func CartTotals(items models.CartItems) (count int, subtotal float64) {
	for i := range items {
		count += items[i].Count
		subtotal += items[i].Price * float64(items[i].Count)
	}
	return count, subtotal
}

// UpsertWatchlistItem adds a (product, variation) pair to the watchlist.
// An existing entry for the same pair is replaced, not duplicated.
func UpsertWatchlistItem(items models.WatchlistItems, item models.WatchlistItem) models.WatchlistItems {
	item.AddedAt = time.Now()
	for i := range items {
		if items[i].ProductID == item.ProductID && items[i].VariationID == item.VariationID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

// RemoveWatchlistItem drops the entry matching the (product, variation)
// pair. Returns false when no entry matches.
func RemoveWatchlistItem(items models.WatchlistItems, productID, variationID string) (models.WatchlistItems, bool) {
	for i := range items {
		if items[i].ProductID == productID && items[i].VariationID == variationID {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}
