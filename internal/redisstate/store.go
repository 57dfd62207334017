// Package redisstate provides a Redis-backed implementation of the
// statestore.Store interface.
//
// Values are JSON-encoded under the key's escaped string encoding. Change
// notification rides Redis pub/sub with one channel per key, so delivery to
// subscribers is asynchronous, unlike the in-memory backend. Sessions that
// need state to survive the process, or to be visible to a sibling process
// (e.g. an authoring preview next to a playback host), use this backend.
package redisstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/vk/contentgraph/internal/statekey"
	"github.com/vk/contentgraph/internal/statestore"
)

// keyPrefix namespaces all graph state within the Redis keyspace.
const keyPrefix = "contentgraph:field:"

// Store is a Redis implementation of statestore.Store.
type Store struct {
	client *redis.Client

	mu      sync.Mutex
	pubsubs map[*redis.PubSub]struct{}
	closed  bool
}

// New connects to Redis at addr and verifies connectivity.
func New(ctx context.Context, addr string) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redisstate: ping %s: %w", addr, err)
	}
	return &Store{
		client:  client,
		pubsubs: make(map[*redis.PubSub]struct{}),
	}, nil
}

func redisKey(key statekey.Key) string {
	return keyPrefix + key.Encode()
}

// Get retrieves and decodes the value at key. A missing key is reported as
// unset, not as an error.
func (s *Store) Get(ctx context.Context, key statekey.Key) (any, bool, error) {
	raw, err := s.client.Get(ctx, redisKey(key)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redisstate: get %s: %w", key, err)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false, fmt.Errorf("redisstate: decode %s: %w", key, err)
	}
	return value, true, nil
}

// Set JSON-encodes value, stores it at key, and publishes the new value on
// the key's channel.
func (s *Store) Set(ctx context.Context, key statekey.Key, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redisstate: encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, redisKey(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("redisstate: set %s: %w", key, err)
	}
	if err := s.client.Publish(ctx, redisKey(key), payload).Err(); err != nil {
		return fmt.Errorf("redisstate: publish %s: %w", key, err)
	}
	return nil
}

// Subscribe registers fn for changes to exactly key. Delivery is
// asynchronous: fn runs on a background goroutine owned by the subscription.
func (s *Store) Subscribe(key statekey.Key, fn statestore.ChangeFunc) statestore.CancelFunc {
	pubsub := s.client.Subscribe(context.Background(), redisKey(key))

	s.mu.Lock()
	s.pubsubs[pubsub] = struct{}{}
	s.mu.Unlock()

	go func() {
		for msg := range pubsub.Channel() {
			var value any
			if err := json.Unmarshal([]byte(msg.Payload), &value); err != nil {
				continue
			}
			fn(key, value)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.pubsubs, pubsub)
			s.mu.Unlock()
			_ = pubsub.Close()
		})
	}
}

// Close cancels all live subscriptions and closes the Redis connection.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for pubsub := range s.pubsubs {
		_ = pubsub.Close()
	}
	s.pubsubs = make(map[*redis.PubSub]struct{})
	s.mu.Unlock()

	return s.client.Close()
}
