package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"commerce-service/internal/models"
)

// ValidationError reports a malformed filter value. Handlers surface it as a
// 400 with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FilterCriteria holds the parsed filter predicates. Nil fields mean the
// predicate is absent; all present predicates must match (conjunction).
type FilterCriteria struct {
	MinPrice   *float64
	MaxPrice   *float64
	Size       *string
	Color      *string
	VendorID   *uuid.UUID
	CategoryID *uuid.UUID
	ProductID  *uuid.UUID
	Page       *int
	Limit      *int
}

// HasPriceBound reports whether a price range predicate was supplied.
// Results are sorted by ascending price only in that case.
func (c *FilterCriteria) HasPriceBound() bool {
	return c.MinPrice != nil || c.MaxPrice != nil
}

// ParseFilterParams validates the raw query values into criteria.
func ParseFilterParams(params models.FilterParams) (*FilterCriteria, error) {
	criteria := &FilterCriteria{}

	var err error
	if criteria.MinPrice, err = parseFloat("startPrice", params.StartPrice); err != nil {
		return nil, err
	}
	if criteria.MaxPrice, err = parseFloat("endPrice", params.EndPrice); err != nil {
		return nil, err
	}
	if criteria.VendorID, err = parseID("vendorId", params.VendorID); err != nil {
		return nil, err
	}
	if criteria.CategoryID, err = parseID("categoryId", params.CategoryID); err != nil {
		return nil, err
	}
	if criteria.ProductID, err = parseID("productId", params.ProductID); err != nil {
		return nil, err
	}
	if criteria.Page, err = parsePositiveInt("page", params.Page); err != nil {
		return nil, err
	}
	if criteria.Limit, err = parsePositiveInt("limit", params.Limit); err != nil {
		return nil, err
	}

	if params.Size != "" {
		criteria.Size = &params.Size
	}
	if params.Color != "" {
		criteria.Color = &params.Color
	}

	return criteria, nil
}

func parseFloat(field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "must be a number"}
	}
	return &value, nil
}

func parseID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "must be a valid id"}
	}
	return &id, nil
}

func parsePositiveInt(field, raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return nil, &ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return &value, nil
}

// Flatten expands products into (product, variation) rows. A product without
// variations contributes a single row with nil variation fields so it stays
// discoverable.
func Flatten(products []models.Product, variations map[uuid.UUID][]models.Variation) []models.FilterRow {
	rows := make([]models.FilterRow, 0, len(products))
	for i := range products {
		p := &products[i]
		vars := variations[p.ID]
		if len(vars) == 0 {
			rows = append(rows, models.FilterRow{
				ProductID:     p.ID,
				Name:          p.Name,
				Description:   p.Description,
				ProductImages: p.Images,
				VendorID:      p.VendorID,
				CategoryID:    p.CategoryID,
			})
			continue
		}
		for j := range vars {
			v := &vars[j]
			price := v.Price
			variationID := v.ID
			rows = append(rows, models.FilterRow{
				ProductID:       p.ID,
				Name:            p.Name,
				Description:     p.Description,
				ProductImages:   p.Images,
				VendorID:        p.VendorID,
				CategoryID:      p.CategoryID,
				VariationID:     &variationID,
				VariationImages: v.Images,
				Price:           &price,
				OfferPrice:      v.OfferPrice,
				Size:            v.Size,
				Color:           v.Color,
			})
		}
	}
	return rows
}

func matches(row *models.FilterRow, c *FilterCriteria) bool {
	if c.MinPrice != nil && (row.Price == nil || *row.Price < *c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && (row.Price == nil || *row.Price > *c.MaxPrice) {
		return false
	}
	if c.Size != nil && (row.Size == nil || *row.Size != *c.Size) {
		return false
	}
	if c.Color != nil && (row.Color == nil || *row.Color != *c.Color) {
		return false
	}
	if c.VendorID != nil && row.VendorID != *c.VendorID {
		return false
	}
	if c.CategoryID != nil && row.CategoryID != *c.CategoryID {
		return false
	}
	if c.ProductID != nil && row.ProductID != *c.ProductID {
		return false
	}
	return true
}

// ApplyCriteria filters, sorts and paginates flattened rows. Sorting kicks
// in only when a price bound was supplied; pagination only when both page
// and limit were supplied. A window past the end yields an empty list.
func ApplyCriteria(rows []models.FilterRow, c *FilterCriteria) []models.FilterRow {
	filtered := make([]models.FilterRow, 0, len(rows))
	for i := range rows {
		if matches(&rows[i], c) {
			filtered = append(filtered, rows[i])
		}
	}

	if c.HasPriceBound() {
		sort.SliceStable(filtered, func(i, j int) bool {
			a, b := filtered[i].Price, filtered[j].Price
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a < *b
		})
	}

	if c.Page != nil && c.Limit != nil {
		skip := (*c.Page - 1) * *c.Limit
		if skip >= len(filtered) {
			return []models.FilterRow{}
		}
		end := skip + *c.Limit
		if end > len(filtered) {
			end = len(filtered)
		}
		filtered = filtered[skip:end]
	}

	return filtered
}

// FilterCatalog runs the whole pipeline over an already-loaded catalog
// slice: flatten, filter, sort, paginate.
func FilterCatalog(products []models.Product, variations map[uuid.UUID][]models.Variation, params models.FilterParams) ([]models.FilterRow, error) {
	criteria, err := ParseFilterParams(params)
	if err != nil {
		return nil, err
	}
	rows := Flatten(products, variations)
	return ApplyCriteria(rows, criteria), nil
}
