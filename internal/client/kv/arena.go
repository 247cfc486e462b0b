package kv

import (
	"context"
	"sync"
)

// WatchFunc receives the name of a changed key. The signal carries nothing
// else: watchers must re-read the store, never reconstruct state from the
// notification itself.
type WatchFunc func(key string)

// Arena multiplexes several Tab handles over one shared Store and delivers
// the cross-tab change signal between them. A write through one tab notifies
// the watchers of every other tab with the changed key; the writing tab never
// receives its own signal. Delivery happens after the write completed, so a
// watcher that re-reads always observes the new value (last write wins).
type Arena struct {
	store Store

	mu      sync.Mutex
	tabs    map[*Tab]struct{}
	watchID int
}

// NewArena wraps the given shared store.
func NewArena(store Store) *Arena {
	return &Arena{store: store, tabs: make(map[*Tab]struct{})}
}

// OpenTab registers and returns a new tab handle.
func (a *Arena) OpenTab() *Tab {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := &Tab{arena: a, watchers: make(map[int]WatchFunc)}
	a.tabs[t] = struct{}{}
	return t
}

// signal notifies every tab except origin that key changed.
func (a *Arena) signal(origin *Tab, key string) {
	a.mu.Lock()
	tabs := make([]*Tab, 0, len(a.tabs))
	for t := range a.tabs {
		if t != origin {
			tabs = append(tabs, t)
		}
	}
	a.mu.Unlock()

	for _, t := range tabs {
		t.notify(key)
	}
}

// Tab is one handle on the arena, standing in for a browser tab. It
// implements Store by writing through to the shared backend.
type Tab struct {
	arena *Arena

	mu       sync.Mutex
	watchers map[int]WatchFunc
	closed   bool
}

// Get reads straight from the shared store; tabs never cache.
func (t *Tab) Get(ctx context.Context, key string) (string, bool, error) {
	return t.arena.store.Get(ctx, key)
}

// Set writes through and signals sibling tabs.
func (t *Tab) Set(ctx context.Context, key, value string) error {
	if err := t.arena.store.Set(ctx, key, value); err != nil {
		return err
	}
	t.arena.signal(t, key)
	return nil
}

// Remove deletes through and signals sibling tabs.
func (t *Tab) Remove(ctx context.Context, key string) error {
	if err := t.arena.store.Remove(ctx, key); err != nil {
		return err
	}
	t.arena.signal(t, key)
	return nil
}

// Watch registers fn for change signals from sibling tabs and returns an
// unsubscribe func.
func (t *Tab) Watch(fn WatchFunc) func() {
	t.arena.mu.Lock()
	t.arena.watchID++
	id := t.arena.watchID
	t.arena.mu.Unlock()

	t.mu.Lock()
	t.watchers[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.watchers, id)
		t.mu.Unlock()
	}
}

// Close detaches the tab from the arena; it stops receiving signals and its
// writes stop signalling others.
func (t *Tab) Close() {
	t.mu.Lock()
	t.closed = true
	t.watchers = make(map[int]WatchFunc)
	t.mu.Unlock()

	t.arena.mu.Lock()
	delete(t.arena.tabs, t)
	t.arena.mu.Unlock()
}

func (t *Tab) notify(key string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	fns := make([]WatchFunc, 0, len(t.watchers))
	for _, fn := range t.watchers {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
}
