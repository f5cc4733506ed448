// internal/app/store/secrets/store.go
package secrets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Namespaces for credential secrets. Keys are "{namespace}:{email}", so a
// user has at most one live secret per namespace; issuing a new one
// overwrites the previous value and its TTL.
const (
	NamespaceOTP   = "otp"
	NamespaceMagic = "magic"
)

// ErrNotFound is returned when a key is absent or has expired.
var ErrNotFound = errors.New("secret not found or expired")

// Store is a short-lived key-value store with per-key expiry, backed by
// Redis. There is no delete operation; expiry is the only removal path.
type Store struct {
	client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func key(namespace, k string) string {
	return namespace + ":" + k
}

// Put stores value under (namespace, key) with the given TTL, replacing any
// existing value and resetting its expiry.
func (s *Store) Put(ctx context.Context, namespace, k, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(namespace, k), value, ttl).Err(); err != nil {
		return fmt.Errorf("put secret: %w", err)
	}
	return nil
}

// Get returns the value stored under (namespace, key), or ErrNotFound if the
// key is absent or expired.
func (s *Store) Get(ctx context.Context, namespace, k string) (string, error) {
	val, err := s.client.Get(ctx, key(namespace, k)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get secret: %w", err)
	}
	return val, nil
}

// SetTTL rewrites the expiry of an existing key. Setting a TTL on an absent
// key is a no-op.
func (s *Store) SetTTL(ctx context.Context, namespace, k string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key(namespace, k), ttl).Err(); err != nil {
		return fmt.Errorf("set secret ttl: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection, for health checks.
// Close releases the underlying Redis connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
