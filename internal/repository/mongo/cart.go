package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/velora/storefront-cart/pkg/errors"

	"github.com/velora/storefront-cart/internal/domain"
)

const collectionName = "carts"

// CartRepository implements repository.CartRepository on a MongoDB
// collection with one document per user cart. Optimistic concurrency rides
// on the version field: conditional writes filter on it and a unique index
// on user_id turns racing first inserts into conflicts.
type CartRepository struct {
	collection *mongo.Collection
}

// NewCartRepository creates a MongoDB-backed cart repository.
func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{collection: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique user_id index and a TTL index expiring
// abandoned carts ttl after their last write. Call once at startup.
func (r *CartRepository) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		},
	})
	if err != nil {
		return fmt.Errorf("create cart indexes: %w", err)
	}
	return nil
}

// Get retrieves a cart by user ID.
func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("cart", userID)
		}
		return nil, fmt.Errorf("mongo find cart: %w", err)
	}
	return &cart, nil
}

// Save persists the cart unconditionally, creating the document when the
// user has none.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	r.prepare(cart)
	cart.Version++

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": cart.UserID}, cart, opts); err != nil {
		cart.Version--
		return fmt.Errorf("mongo save cart: %w", err)
	}
	return nil
}

// SaveIfVersion persists the cart only when the stored version still equals
// expectedVersion. Version zero means first persistence: the document is
// inserted and the unique user_id index catches a racing insert.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int64) error {
	r.prepare(cart)
	cart.Version = expectedVersion + 1

	if expectedVersion == 0 {
		if _, err := r.collection.InsertOne(ctx, cart); err != nil {
			cart.Version = expectedVersion
			if mongo.IsDuplicateKeyError(err) {
				return apperrors.Conflict("cart was modified concurrently")
			}
			return fmt.Errorf("mongo insert cart: %w", err)
		}
		return nil
	}

	filter := bson.M{"user_id": cart.UserID, "version": expectedVersion}
	update := bson.M{"$set": bson.M{
		"items":      cart.Items,
		"currency":   cart.Currency,
		"version":    cart.Version,
		"updated_at": cart.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		cart.Version = expectedVersion
		return fmt.Errorf("mongo update cart: %w", err)
	}
	if result.MatchedCount == 0 {
		cart.Version = expectedVersion
		return apperrors.Conflict("cart was modified concurrently")
	}
	return nil
}

// Delete removes the user's cart. Absent carts are not an error.
func (r *CartRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("mongo delete cart: %w", err)
	}
	return nil
}

func (r *CartRepository) prepare(cart *domain.Cart) {
	now := time.Now().UTC()
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
}
