package models

import (
	"fmt"

	"github.com/pokeshop/storefront/internal/common"
)

// Variant is a purchasable size of a product with its own price.
type Variant struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
}

// Product is the catalog entry as served by the backend. Favorites persist
// the full snapshot, not just the id, so the dashboard can render offline.
type Product struct {
	ID       string    `json:"id"`
	Slug     string    `json:"slug,omitempty"`
	Name     string    `json:"name"`
	Type     string    `json:"type,omitempty"`
	Price    float64   `json:"price"`
	Image    string    `json:"img,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
}

// HasVariants reports whether the product must be bought through a size pick.
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// VariantPrice returns the price for the given size, falling back to the
// base price when size is empty. Unknown sizes are an error.
func (p Product) VariantPrice(size string) (float64, error) {
	if size == "" {
		return p.Price, nil
	}
	for _, v := range p.Variants {
		if v.Size == size {
			return v.Price, nil
		}
	}
	return 0, fmt.Errorf("product %s: no variant %q: %w", p.ID, size, common.ErrorNotFound)
}

// ValidateVariants rejects a product configuration carrying the same size
// twice. Caught defensively before any cart mutation.
func (p Product) ValidateVariants() error {
	seen := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if _, ok := seen[v.Size]; ok {
			return fmt.Errorf("product %s: size %q: %w", p.ID, v.Size, common.ErrDuplicateVariant)
		}
		seen[v.Size] = struct{}{}
	}
	return nil
}
