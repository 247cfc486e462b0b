package kv

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a shared Redis instance, for setups where
// several storefront processes on one machine act as the "tabs" of a single
// profile. Every mutation publishes the changed key on a signal channel;
// messages are tagged with the writer's origin id so a process never reacts
// to its own writes, mirroring the arena semantics.
type RedisStore struct {
	client *redis.Client
	prefix string
	origin string

	mu       sync.Mutex
	watchers map[int]WatchFunc
	watchID  int
	pubsub   *redis.PubSub
	cancel   context.CancelFunc
}

// NewRedisStore connects to addr and scopes all keys under prefix.
func NewRedisStore(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{
		client:   client,
		prefix:   prefix,
		origin:   uuid.NewString(),
		watchers: make(map[int]WatchFunc),
	}, nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) signalChannel() string {
	return s.prefix + "__signal"
}

// Get reads the raw value for key. redis.Nil maps to ("", false, nil).
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, true, nil
}

// Set writes the value and broadcasts the changed key name.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	s.publish(ctx, key)
	return nil
}

// Remove deletes the key and broadcasts the changed key name.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove kv[%s]: %w", key, err)
	}
	s.publish(ctx, key)
	return nil
}

// publish is best-effort: a lost signal only widens the staleness window of
// sibling processes, it never loses data.
func (s *RedisStore) publish(ctx context.Context, key string) {
	_ = s.client.Publish(ctx, s.signalChannel(), s.origin+"|"+key).Err()
}

// Watch registers fn for change signals from other processes and returns an
// unsubscribe func. The subscription pump starts lazily on first use.
func (s *RedisStore) Watch(fn WatchFunc) func() {
	s.mu.Lock()
	s.watchID++
	id := s.watchID
	s.watchers[id] = fn
	if s.pubsub == nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.pubsub = s.client.Subscribe(ctx, s.signalChannel())
		go s.pump(ctx, s.pubsub.Channel())
	}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *RedisStore) pump(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			origin, key, found := strings.Cut(msg.Payload, "|")
			if !found || origin == s.origin {
				continue
			}
			s.mu.Lock()
			fns := make([]WatchFunc, 0, len(s.watchers))
			for _, fn := range s.watchers {
				fns = append(fns, fn)
			}
			s.mu.Unlock()
			for _, fn := range fns {
				fn(key)
			}
		}
	}
}

// Close stops the signal pump and releases the connection.
func (s *RedisStore) Close() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	pubsub := s.pubsub
	s.mu.Unlock()

	if pubsub != nil {
		_ = pubsub.Close()
	}
	return s.client.Close()
}
