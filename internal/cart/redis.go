package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each cart in a hash keyed by session id, one field per
// product. Every write refreshes the key's ttl.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (map[uint]int, error) {
	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return parseItems(fields)
}

func parseItems(fields map[string]string) (map[uint]int, error) {
	items := make(map[uint]int, len(fields))
	for field, value := range fields {
		productID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart field %q: %w", field, err)
		}
		qty, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart quantity %q: %w", value, err)
		}
		items[uint(productID)] = qty
	}
	return items, nil
}

func (s *RedisStore) Add(ctx context.Context, sessionID string, productID uint, quantity int) error {
	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, field(productID), int64(quantity))
		s.expire(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID string, productID uint) error {
	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, key, field(productID))
		s.expire(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, sessionID string) (map[uint]int, error) {
	key := s.key(sessionID)
	var fields *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("take cart: %w", err)
	}
	return parseItems(fields.Val())
}

func (s *RedisStore) Restore(ctx context.Context, sessionID string, items map[uint]int) error {
	if len(items) == 0 {
		return nil
	}

	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, qty := range items {
			pipe.HIncrBy(ctx, key, field(id), int64(qty))
		}
		s.expire(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	return nil
}

func (s *RedisStore) expire(ctx context.Context, pipe redis.Pipeliner, key string) {
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
}

func field(productID uint) string {
	return strconv.FormatUint(uint64(productID), 10)
}
