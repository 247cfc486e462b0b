// Package bus implements the same-tab publish/subscribe channel. Delivery is
// synchronous and ordered: Publish invokes every current subscriber on the
// caller's goroutine, in subscription order, before returning. The bus never
// crosses tabs; cross-tab consistency rides on the kv change signal instead.
package bus

import "sync"

// Topic names a notification stream.
type Topic string

// Topics emitted by the synchronizer. Payload types per topic:
// cart count (int), favorites count (int), appended activity event
// (models.ActivityEvent), login/logout (nil).
const (
	TopicCartCount        Topic = "cart-count-changed"
	TopicFavoritesCount   Topic = "favorites-changed"
	TopicActivityAppended Topic = "activity-appended"
	TopicUserLoggedIn     Topic = "user-logged-in"
	TopicUserLoggedOut    Topic = "user-logged-out"
)

// HandlerFunc receives the payload published on a topic.
type HandlerFunc func(payload any)

type subscriber struct {
	id int
	fn HandlerFunc
}

// Bus is a synchronous in-process pub/sub hub. The zero value is not usable;
// use New.
type Bus struct {
	mu     sync.Mutex
	subs   map[Topic][]subscriber
	nextID int
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic][]subscriber)}
}

// Subscribe registers fn for the topic and returns an unsubscribe func.
// Handlers registered earlier are invoked earlier.
func (b *Bus) Subscribe(topic Topic, fn HandlerFunc) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers payload to all current subscribers of topic, in order,
// on the calling goroutine. A panicking handler does not prevent delivery
// to the handlers after it.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.Lock()
	list := make([]subscriber, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.Unlock()

	for _, s := range list {
		deliver(s.fn, payload)
	}
}

func deliver(fn HandlerFunc, payload any) {
	defer func() {
		_ = recover()
	}()
	fn(payload)
}
