package models

import "time"

// Activity event types recognized by the backend feed.
const (
	ActivityLogin      = "login"
	ActivityLogout     = "logout"
	ActivityRegister   = "register"
	ActivityAddCart    = "add_cart"
	ActivityRemoveCart = "remove_cart"
	ActivityClearCart  = "clear_cart"
	ActivityPurchase   = "purchase"
	ActivityFavorite   = "favorite"
	ActivityCheckout   = "checkout"
)

// ActivityEvent is one entry of the user's activity feed. The id and
// timestamp are assigned by the server; the client never fabricates them.
type ActivityEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
