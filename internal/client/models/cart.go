package models

// LineKey builds the identity key of a cart line. Two lines with the same
// product but different variant sizes are distinct; an empty size collapses
// to the bare product id.
func LineKey(productID, variantSize string) string {
	if variantSize == "" {
		return productID
	}
	return productID + "-" + variantSize
}

// CartItem is one line of a user's cart. The stored JSON mirrors the product
// snapshot plus the quantity and the precomputed identity key.
type CartItem struct {
	Key         string  `json:"cartItemId"`
	ProductID   string  `json:"id"`
	VariantSize string  `json:"size,omitempty"`
	Name        string  `json:"name"`
	Type        string  `json:"type,omitempty"`
	UnitPrice   float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"img,omitempty"`
}

// Label renders the human-readable name of the line, including the variant
// size when present, e.g. "Pikachu Plush (20cm)".
func (i CartItem) Label() string {
	if i.VariantSize == "" {
		return i.Name
	}
	return i.Name + " (" + i.VariantSize + ")"
}

// CartLines is an ordered cart. Count and Total are always recomputed from
// current line state, never cached.
type CartLines []CartItem

// Count is the sum of quantities over all lines.
func (c CartLines) Count() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

// Total is the sum of unit price times quantity over all lines.
func (c CartLines) Total() float64 {
	total := 0.0
	for _, item := range c {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}
