// Package cart implements the per-user shopping cart: an ordered list of
// lines keyed by (product, variant size), persisted under the user's cart
// key and broadcast on the same-tab bus after every mutation. The cart is
// locally authoritative; the backend only ever sees it as an order snapshot
// at checkout.
package cart

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
// activity.Log: a failed record never fails the cart operation.
type ActivityLogger interface {
	Record(ctx context.Context, typ, title, description string)
}

// Identity exposes the owning user's email ("" when logged out).
// Satisfied by session.Manager.
type Identity interface {
	Email() string
}

// Cart is the aggregate. All operations are synchronous against the store;
// with no authenticated user every mutation is a silent no-op.
type Cart struct {
	store    kv.Store
	bus      *bus.Bus
	activity ActivityLogger
	session  Identity
	log      logging.Logger

	mu    sync.Mutex
	email string
	items models.CartLines
}

// New wires the aggregate and subscribes it to identity transitions: the
// in-memory view is reloaded on login and discarded on logout, so one
// user's lines can never leak into another session.
func New(store kv.Store, b *bus.Bus, activity ActivityLogger, session Identity, log logging.Logger) *Cart {
	c := &Cart{store: store, bus: b, activity: activity, session: session, log: log.With("component", "cart")}
	b.Subscribe(bus.TopicUserLoggedIn, func(any) { c.Reload(context.Background()) })
	b.Subscribe(bus.TopicUserLoggedOut, func(any) { c.Reload(context.Background()) })
	return c
}

// Reload re-derives the in-memory view from the store for the current
// identity and publishes the resulting count. Malformed persisted JSON is
// recovered as an empty cart, never an error.
func (c *Cart) Reload(ctx context.Context) {
	email := c.session.Email()

	var items models.CartLines
	if email != "" {
		raw, ok, err := c.store.Get(ctx, kv.CartKey(email))
		if err != nil {
			c.log.Warn(ctx, "reading cart", "error", err)
		} else if ok {
			if err := json.Unmarshal([]byte(raw), &items); err != nil {
				c.log.Warn(ctx, "discarding malformed cart", "error", err)
				items = nil
			}
		}
	}

	c.mu.Lock()
	c.email = email
	c.items = items
	count := items.Count()
	c.mu.Unlock()

	c.bus.Publish(bus.TopicCartCount, count)
}

// WatchTab subscribes the cart to the cross-tab change signal; a sibling
// tab's write to this user's cart key triggers a full re-read.
func (c *Cart) WatchTab(w kv.Watcher) func() {
	return w.Watch(func(key string) {
		c.mu.Lock()
		email := c.email
		c.mu.Unlock()
		if email == "" || key != kv.CartKey(email) {
			return
		}
		c.Reload(context.Background())
	})
}

// AddItem adds one unit of the product (in the given variant size, if any).
// An existing line with the same identity key gets its quantity bumped;
// otherwise a new line is appended with quantity 1.
func (c *Cart) AddItem(ctx context.Context, product models.Product, variantSize string) error {
	if c.session.Email() == "" {
		return nil
	}
	if err := product.ValidateVariants(); err != nil {
		return err
	}
	price, err := product.VariantPrice(variantSize)
	if err != nil {
		return err
	}

	key := models.LineKey(product.ID, variantSize)

	c.mu.Lock()
	var line models.CartItem
	found := false
	for i := range c.items {
		if c.items[i].Key == key {
			c.items[i].Quantity++
			line = c.items[i]
			found = true
			break
		}
	}
	if !found {
		line = models.CartItem{
			Key:         key,
			ProductID:   product.ID,
			VariantSize: variantSize,
			Name:        product.Name,
			Type:        product.Type,
			UnitPrice:   price,
			Quantity:    1,
			Image:       product.Image,
		}
		c.items = append(c.items, line)
	}
	c.mu.Unlock()

	c.persistAndPublish(ctx)
	c.activity.Record(ctx, models.ActivityAddCart, "Producto añadido",
		fmt.Sprintf("Has añadido %s al carrito", line.Label()))
	return nil
}

// RemoveItem deletes the line with the given identity key. An unknown key
// is a silent no-op and leaves the feed alone.
func (c *Cart) RemoveItem(ctx context.Context, lineKey string) {
	if c.session.Email() == "" {
		return
	}

	c.mu.Lock()
	var removed models.CartItem
	found := false
	for i := range c.items {
		if c.items[i].Key == lineKey {
			removed = c.items[i]
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return
	}

	c.persistAndPublish(ctx)
	c.activity.Record(ctx, models.ActivityRemoveCart, "Producto removido",
		fmt.Sprintf("Has quitado %s del carrito", removed.Label()))
}

// UpdateQuantity replaces the quantity of a line. Values below 1 and
// unknown keys are rejected as no-ops; quantity edits are deliberately not
// recorded in the activity feed.
func (c *Cart) UpdateQuantity(ctx context.Context, lineKey string, quantity int) {
	if quantity < 1 || c.session.Email() == "" {
		return
	}

	c.mu.Lock()
	changed := false
	for i := range c.items {
		if c.items[i].Key == lineKey {
			changed = c.items[i].Quantity != quantity
			c.items[i].Quantity = quantity
			break
		}
	}
	c.mu.Unlock()

	if changed {
		c.persistAndPublish(ctx)
	}
}

// Clear empties the cart, persists the empty list and records the wipe.
func (c *Cart) Clear(ctx context.Context) {
	if c.session.Email() == "" {
		return
	}

	c.mu.Lock()
	c.items = models.CartLines{}
	c.mu.Unlock()

	c.persistAndPublish(ctx)
	c.activity.Record(ctx, models.ActivityClearCart, "Carrito vaciado",
		"Has eliminado todos los productos del carrito")
}

// ClearSilently empties the cart without a feed entry. Used by checkout,
// which records a purchase event of its own.
func (c *Cart) ClearSilently(ctx context.Context) {
	if c.session.Email() == "" {
		return
	}

	c.mu.Lock()
	c.items = models.CartLines{}
	c.mu.Unlock()

	c.persistAndPublish(ctx)
}

// Items returns a copy of the current lines in order.
func (c *Cart) Items() models.CartLines {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(models.CartLines, len(c.items))
	copy(out, c.items)
	return out
}

// Count is the sum of quantities, recomputed from current line state.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Count()
}

// Total is the sum of unit price times quantity, recomputed on every call.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Total()
}

func (c *Cart) persistAndPublish(ctx context.Context) {
	c.mu.Lock()
	email := c.email
	if email == "" {
		email = c.session.Email()
		c.email = email
	}
	items := c.items
	if items == nil {
		items = models.CartLines{}
	}
	count := items.Count()
	raw, err := json.Marshal(items)
	c.mu.Unlock()

	if err != nil {
		c.log.Error(ctx, "encoding cart", "error", err)
		return
	}
	if email == "" {
		return
	}
	if err := c.store.Set(ctx, kv.CartKey(email), string(raw)); err != nil {
		c.log.Error(ctx, "persisting cart", "error", err)
	}

	c.bus.Publish(bus.TopicCartCount, count)
}
