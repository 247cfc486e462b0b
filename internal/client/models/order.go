package models

import "time"

// Order statuses are server-driven; the client only reads them.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderItem is one purchased line inside an order, denormalized at
// checkout time.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Type     string  `json:"type,omitempty"`
	Image    string  `json:"img,omitempty"`
	Size     string  `json:"size,omitempty"`
}

// OrderPayload is the create-order request body built from a cart snapshot.
type OrderPayload struct {
	Items []OrderItem `json:"items"`
	Total float64     `json:"total"`
}

// Order is the server's record of a completed checkout. Immutable from the
// client after creation.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id,omitempty"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItemFromCartLine converts a cart line into its order representation.
func OrderItemFromCartLine(item CartItem) OrderItem {
	return OrderItem{
		ID:       item.ProductID,
		Name:     item.Name,
		Price:    item.UnitPrice,
		Quantity: item.Quantity,
		Type:     item.Type,
		Image:    item.Image,
		Size:     item.VariantSize,
	}
}
