package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/keyper-app/keyper/internal/domain"
)

// Cache is the read-through lease cache plus the pub/sub transport for
// domain events. Keys are namespaced per client so invalidation can never
// cross the isolation boundary.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("redis.Cache.Close: %w", err)
	}
	return nil
}

// GetLease returns the cached lease, or ok=false on a miss.
func (c *Cache) GetLease(ctx context.Context, clientID, leaseID uuid.UUID) (*domain.Lease, bool, error) {
	raw, err := c.client.Get(ctx, LeaseKey(clientID, leaseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis.Cache.GetLease: %w", err)
	}

	var l domain.Lease
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, false, fmt.Errorf("redis.Cache.GetLease: unmarshal: %w", err)
	}

	return &l, true, nil
}

func (c *Cache) SetLease(ctx context.Context, l *domain.Lease) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("redis.Cache.SetLease: marshal: %w", err)
	}

	if err := c.client.Set(ctx, LeaseKey(l.ClientID, l.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis.Cache.SetLease: %w", err)
	}

	return nil
}

// Invalidate removes the cache entry for (client, lease). A missing key is
// not an error.
func (c *Cache) Invalidate(ctx context.Context, clientID, leaseID uuid.UUID) error {
	if err := c.client.Del(ctx, LeaseKey(clientID, leaseID)).Err(); err != nil {
		return fmt.Errorf("redis.Cache.Invalidate: %w", err)
	}
	return nil
}

func (c *Cache) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := c.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Cache.Publish: %w", err)
	}
	return nil
}

// Subscribe streams payloads from a channel until ctx is cancelled. The
// returned cleanup closes the subscription.
func (c *Cache) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := c.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.Cache.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// LeaseKey returns the cache key for a lease.
func LeaseKey(clientID, leaseID uuid.UUID) string {
	return "lease:" + clientID.String() + ":" + leaseID.String()
}

// EventChannel returns the pub/sub channel for client-wide domain events.
func EventChannel(clientID uuid.UUID) string {
	return "events:" + clientID.String()
}
