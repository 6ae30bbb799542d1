package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CartStore keeps each buyer's cart in Redis as a productID → quantity map
// under cart:<userID>.
type CartStore struct {
	rdb *redis.Client
}

func NewCartStore(rdb *redis.Client) *CartStore {
	return &CartStore{rdb: rdb}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (s *CartStore) Get(ctx context.Context, userID string) (map[string]int, error) {
	data, err := s.rdb.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	items := map[string]int{}
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

func (s *CartStore) Set(ctx context.Context, userID string, items map[string]int) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.rdb.Set(ctx, cartKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

// Clear empties the cart after a confirmed online payment.
func (s *CartStore) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
