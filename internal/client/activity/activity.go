// Package activity maintains the user's activity feed: a server-backed,
// newest-first list capped at the 20 most recent events. Appends are
// two-phase: the remote write goes first, and the local list only changes
// after the server acknowledged. The local view is always a (possibly
// incomplete) subset of server truth, never ahead of it.
package activity

import (
	"context"
	"sync"

	"github.com/pokeshop/storefront/internal/client/bus"
	"github.com/pokeshop/storefront/internal/client/models"
	"github.com/pokeshop/storefront/internal/logging"
)

// maxEntries caps the client-visible feed. Truncation happens locally after
// each append; the server keeps the full history.
const maxEntries = 20

// APIClient is the slice of the remote API the feed needs.
type APIClient interface {
	Activities(ctx context.Context) ([]models.ActivityEvent, error)
	AppendActivity(ctx context.Context, typ, title, description string) (*models.ActivityEvent, error)
}

// Identity answers whether someone is logged in. Satisfied by
// session.Manager.
type Identity interface {
	IsLoggedIn() bool
}

// Log is the in-memory feed bound to the current identity.
type Log struct {
	client  APIClient
	session Identity
	bus     *bus.Bus
	log     logging.Logger

	mu     sync.Mutex
	events []models.ActivityEvent
}

// NewLog wires the feed. The local list empties itself on logout.
func NewLog(client APIClient, session Identity, b *bus.Bus, log logging.Logger) *Log {
	l := &Log{client: client, session: session, bus: b, log: log.With("component", "activity")}
	b.Subscribe(bus.TopicUserLoggedOut, func(any) { l.reset() })
	return l
}

// Record appends one event. Unauthenticated calls are silent no-ops; remote
// failures are logged and swallowed so the user-facing action that triggered
// the event never fails because of the feed.
func (l *Log) Record(ctx context.Context, typ, title, description string) {
	if !l.session.IsLoggedIn() {
		return
	}

	event, err := l.client.AppendActivity(ctx, typ, title, description)
	if err != nil {
		l.log.Warn(ctx, "activity append failed", "type", typ, "error", err)
		return
	}

	l.mu.Lock()
	l.events = append([]models.ActivityEvent{*event}, l.events...)
	if len(l.events) > maxEntries {
		l.events = l.events[:maxEntries]
	}
	l.mu.Unlock()

	l.bus.Publish(bus.TopicActivityAppended, *event)
}

// Refresh replaces the local list with the server's view, newest first.
// Without an identity the list just empties.
func (l *Log) Refresh(ctx context.Context) error {
	if !l.session.IsLoggedIn() {
		l.reset()
		return nil
	}

	events, err := l.client.Activities(ctx)
	if err != nil {
		return err
	}
	if len(events) > maxEntries {
		events = events[:maxEntries]
	}

	l.mu.Lock()
	l.events = events
	l.mu.Unlock()
	return nil
}

// Recent returns a copy of the current feed, newest first.
func (l *Log) Recent() []models.ActivityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.ActivityEvent, len(l.events))
	copy(out, l.events)
	return out
}

func (l *Log) reset() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}
