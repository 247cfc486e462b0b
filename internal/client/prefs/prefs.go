// Package prefs stores the notification preferences toggled from the
// dashboard. The value is profile-wide, not per-user, matching the single
// preferences panel it backs.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pokeshop/storefront/internal/client/kv"
)

// Notifications holds the three dashboard toggles.
type Notifications struct {
	Orders     bool `json:"orders"`
	Promotions bool `json:"promotions"`
	Favorites  bool `json:"favorites"`
}

// DefaultNotifications are the out-of-the-box toggles: order and favorites
// notices on, promotional ones off.
func DefaultNotifications() Notifications {
	return Notifications{Orders: true, Promotions: false, Favorites: true}
}

// Manager reads and writes the preferences under a fixed store key.
type Manager struct {
	store kv.Store
}

// NewManager returns a Manager over the given store.
func NewManager(store kv.Store) *Manager {
	return &Manager{store: store}
}

// Load returns the persisted preferences, falling back to the defaults when
// nothing is stored or the stored value is malformed.
func (m *Manager) Load(ctx context.Context) (Notifications, error) {
	raw, ok, err := m.store.Get(ctx, kv.NotificationPrefsKey)
	if err != nil {
		return DefaultNotifications(), fmt.Errorf("reading notification prefs: %w", err)
	}
	if !ok {
		return DefaultNotifications(), nil
	}
	var n Notifications
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return DefaultNotifications(), nil
	}
	return n, nil
}

// Save persists the preferences.
func (m *Manager) Save(ctx context.Context, n Notifications) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification prefs: %w", err)
	}
	if err := m.store.Set(ctx, kv.NotificationPrefsKey, string(raw)); err != nil {
		return fmt.Errorf("persisting notification prefs: %w", err)
	}
	return nil
}

// Toggle flips one named preference and persists the result. Unknown names
// are rejected.
func (m *Manager) Toggle(ctx context.Context, name string) (Notifications, error) {
	n, err := m.Load(ctx)
	if err != nil {
		return n, err
	}
	switch name {
	case "orders":
		n.Orders = !n.Orders
	case "promotions":
		n.Promotions = !n.Promotions
	case "favorites":
		n.Favorites = !n.Favorites
	default:
		return n, fmt.Errorf("unknown notification preference %q", name)
	}
	if err := m.Save(ctx, n); err != nil {
		return n, err
	}
	return n, nil
}
