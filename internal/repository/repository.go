package repository

import (
	"context"

	"github.com/velora/storefront-cart/internal/domain"
)

// CartRepository is the persistence contract for cart aggregates, keyed by
// user ID. Implementations live in the mongo and redis subpackages.
type CartRepository interface {
	// Get retrieves the cart for the user. Returns a wrapped
	// apperrors.ErrNotFound when the user has no cart.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists the cart unconditionally, overwriting any existing
	// cart for the user and bumping cart.Version.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion persists the cart only if the stored version still
	// equals expectedVersion (zero means the cart must not exist yet).
	// On success cart.Version is set to expectedVersion+1. A concurrent
	// write surfaces as a wrapped apperrors.ErrConflict.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int64) error

	// Delete removes the user's cart. Deleting an absent cart is not an
	// error.
	Delete(ctx context.Context, userID string) error
}
