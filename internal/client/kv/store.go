// Package kv implements the client's persistent key-value store: the single
// durable, origin-scoped arena that cart, favorites and session state live
// in. Backends exist for SQLite (one profile database on disk) and Redis
// (several storefront processes sharing one profile). The Arena type layers
// the cross-tab change signal on top of any Store.
package kv

import "context"

// Store is the persistent key-value contract. A missing key is reported via
// ok=false, never as an error. Values are raw strings; callers own the
// encoding and must treat unparseable values as absent.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Watcher is the subscription side of the cross-tab change signal,
// satisfied by *Tab and *RedisStore. The callback receives only the changed
// key name; subscribers re-read the store.
type Watcher interface {
	Watch(fn WatchFunc) func()
}

// Well-known keys. Cart and favorites are namespaced per user email so one
// user's state can never collide with another's.
const (
	CurrentUserKey       = "current_user"
	NotificationPrefsKey = "notification_prefs"
)

// CartKey returns the per-user cart key.
func CartKey(email string) string {
	return "cart_" + email
}

// FavoritesKey returns the per-user favorites key.
func FavoritesKey(email string) string {
	return "favorites_" + email
}
