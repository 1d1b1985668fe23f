package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

// CartRepository persists per-session carts. The storefront treats the cart
// store as a best-effort cache keyed by the client-held cart ID.
type CartRepository interface {
	// Load returns the stored cart, or an empty cart when nothing (or
	// nothing readable) is stored under the ID.
	Load(ctx context.Context, id uuid.UUID) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type redisCartRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &redisCartRepo{client: client, ttl: ttl}
}

func cartKey(id uuid.UUID) string { return "cart:" + id.String() }

func (r *redisCartRepo) Load(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &model.Cart{ID: id}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return decodeCart(id, data), nil
}

func (r *redisCartRepo) Save(ctx context.Context, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(cart.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *redisCartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, cartKey(id)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// decodeCart deserializes a stored cart payload. An unreadable payload is
// silently discarded and the session starts over with an empty cart.
func decodeCart(id uuid.UUID, data []byte) *model.Cart {
	cart := &model.Cart{}
	if err := json.Unmarshal(data, cart); err != nil {
		return &model.Cart{ID: id}
	}
	cart.ID = id
	return cart
}
