// Package favorites keeps the per-user wishlist. Each favorite stores the
// full product snapshot rather than just the id, so the list renders even
// when the catalog cannot be fetched. Toggling on records a feed entry;
// toggling off deliberately does not.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pokeshop/storefront/internal/client/bus"
	"github.com/pokeshop/storefront/internal/client/kv"
	"github.com/pokeshop/storefront/internal/client/models"
	"github.com/pokeshop/storefront/internal/logging"
)

// ActivityLogger records feed entries best-effort. Satisfied by
// activity.Log.
type ActivityLogger interface {
	Record(ctx context.Context, typ, title, description string)
}

// Identity exposes the owning user's email ("" when logged out).
// Satisfied by session.Manager.
type Identity interface {
	Email() string
}

// List is the favorites aggregate, keyed by product id.
type List struct {
	store    kv.Store
	bus      *bus.Bus
	activity ActivityLogger
	session  Identity
	log      logging.Logger

	mu    sync.Mutex
	email string
	items []models.Product
}

// New wires the list and subscribes it to identity transitions, reloading
// on login and discarding the in-memory view on logout.
func New(store kv.Store, b *bus.Bus, activity ActivityLogger, session Identity, log logging.Logger) *List {
	l := &List{store: store, bus: b, activity: activity, session: session, log: log.With("component", "favorites")}
	b.Subscribe(bus.TopicUserLoggedIn, func(any) { l.Reload(context.Background()) })
	b.Subscribe(bus.TopicUserLoggedOut, func(any) { l.Reload(context.Background()) })
	return l
}

// Reload re-derives the list from the store for the current identity and
// publishes the resulting count. Malformed persisted JSON is recovered as
// an empty list.
func (l *List) Reload(ctx context.Context) {
	email := l.session.Email()

	var items []models.Product
	if email != "" {
		raw, ok, err := l.store.Get(ctx, kv.FavoritesKey(email))
		if err != nil {
			l.log.Warn(ctx, "reading favorites", "error", err)
		} else if ok {
			if err := json.Unmarshal([]byte(raw), &items); err != nil {
				l.log.Warn(ctx, "discarding malformed favorites", "error", err)
				items = nil
			}
		}
	}

	l.mu.Lock()
	l.email = email
	l.items = items
	count := len(items)
	l.mu.Unlock()

	l.bus.Publish(bus.TopicFavoritesCount, count)
}

// WatchTab subscribes the list to the cross-tab change signal.
func (l *List) WatchTab(w kv.Watcher) func() {
	return w.Watch(func(key string) {
		l.mu.Lock()
		email := l.email
		l.mu.Unlock()
		if email == "" || key != kv.FavoritesKey(email) {
			return
		}
		l.Reload(context.Background())
	})
}

// IsFavorite reports whether the product id is on the list.
func (l *List) IsFavorite(productID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.items {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Toggle flips the product's membership. Adding snapshots the product and
// records a feed entry; removing is silent. Without a logged-in user the
// call is a no-op reporting false.
func (l *List) Toggle(ctx context.Context, product models.Product) (added bool) {
	if l.session.Email() == "" {
		return false
	}

	l.mu.Lock()
	idx := -1
	for i, p := range l.items {
		if p.ID == product.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		l.items = append(l.items[:idx:idx], l.items[idx+1:]...)
	} else {
		l.items = append(l.items, product)
		added = true
	}
	l.mu.Unlock()

	l.persistAndPublish(ctx)
	if added {
		l.activity.Record(ctx, models.ActivityFavorite, "Añadido a favoritos",
			fmt.Sprintf("Agregaste %s a tu lista", product.Name))
	}
	return added
}

// Items returns a copy of the favorites in insertion order.
func (l *List) Items() []models.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Product, len(l.items))
	copy(out, l.items)
	return out
}

// Count is the number of favorites.
func (l *List) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *List) persistAndPublish(ctx context.Context) {
	l.mu.Lock()
	email := l.email
	if email == "" {
		email = l.session.Email()
		l.email = email
	}
	items := l.items
	if items == nil {
		items = []models.Product{}
	}
	count := len(items)
	raw, err := json.Marshal(items)
	l.mu.Unlock()

	if err != nil {
		l.log.Error(ctx, "encoding favorites", "error", err)
		return
	}
	if email == "" {
		return
	}
	if err := l.store.Set(ctx, kv.FavoritesKey(email), string(raw)); err != nil {
		l.log.Error(ctx, "persisting favorites", "error", err)
	}

	l.bus.Publish(bus.TopicFavoritesCount, count)
}
