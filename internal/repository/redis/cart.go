package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/velora/storefront-cart/pkg/errors"

	"github.com/velora/storefront-cart/internal/domain"
)

const keyPrefix = "cart:"

// CartRepository implements repository.CartRepository on Redis with one JSON
// value per user cart and a rolling TTL. Conditional saves use WATCH so a
// concurrent write between read and EXEC aborts the transaction.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a Redis-backed cart repository. The TTL is
// refreshed on every write.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

// Get retrieves a cart by user ID.
func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart", userID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &cart, nil
}

// Save persists the cart unconditionally with the configured TTL.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	prepare(cart)
	cart.Version++

	data, err := json.Marshal(cart)
	if err != nil {
		cart.Version--
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+cart.UserID, data, r.ttl).Err(); err != nil {
		cart.Version--
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// SaveIfVersion persists the cart only when the stored version still equals
// expectedVersion (zero means no cart may exist yet). The key is watched so
// a write that lands between the read and EXEC fails the transaction.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int64) error {
	key := keyPrefix + cart.UserID
	prepare(cart)

	next := *cart
	next.Version = expectedVersion + 1

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expectedVersion != 0 {
				return apperrors.Conflict("cart was modified concurrently")
			}
		case err != nil:
			return fmt.Errorf("redis get cart: %w", err)
		default:
			var stored domain.Cart
			if err := json.Unmarshal(data, &stored); err != nil {
				return fmt.Errorf("unmarshal cart: %w", err)
			}
			if stored.Version != expectedVersion {
				return apperrors.Conflict("cart was modified concurrently")
			}
		}

		payload, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}

	if err := r.client.Watch(ctx, txn, key); err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return apperrors.Conflict("cart was modified concurrently")
		}
		return err
	}

	cart.Version = next.Version
	return nil
}

// Delete removes the user's cart. Absent carts are not an error.
func (r *CartRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}

func prepare(cart *domain.Cart) {
	now := time.Now().UTC()
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
}
