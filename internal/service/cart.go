package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/velora/storefront-cart/pkg/errors"

	"github.com/velora/storefront-cart/internal/catalog"
	"github.com/velora/storefront-cart/internal/domain"
	"github.com/velora/storefront-cart/internal/event"
	"github.com/velora/storefront-cart/internal/repository"
)

// MaxPriceCents is the maximum unit price accepted from a client snapshot.
const MaxPriceCents = 100_000_00

// Adjustment reasons reported alongside a clamped quantity.
const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonMaxQuantity       = "max_quantity_per_item"
)

// AddItemInput holds the parameters for adding an item. The product snapshot
// (name, prices, image) travels with the request; CompareAtPrice is the raw
// strike-through amount and is normalized before storage.
type AddItemInput struct {
	ProductID      string         `json:"productId" validate:"required"`
	Name           string         `json:"name" validate:"required"`
	Brand          string         `json:"brand"`
	ImageURL       string         `json:"imageUrl" validate:"omitempty,url"`
	Price          int64          `json:"price" validate:"gte=0"`
	CompareAtPrice int64          `json:"compareAtPrice" validate:"gte=0"`
	Quantity       int            `json:"quantity" validate:"gte=1"`
	Variant        domain.Variant `json:"variant"`
}

// UpdateQuantityInput identifies a line by product and variant selection and
// carries the new absolute quantity. Zero or negative removes the line.
type UpdateQuantityInput struct {
	ProductID string         `json:"productId" validate:"required"`
	Variant   domain.Variant `json:"variant"`
	Quantity  int            `json:"quantity"`
}

// QuantityAdjustment reports that a requested quantity was clamped. Nil when
// the request was applied as-is.
type QuantityAdjustment struct {
	ProductID string         `json:"productId"`
	Variant   domain.Variant `json:"variant,omitempty"`
	Requested int            `json:"requested"`
	Applied   int            `json:"applied"`
	Reason    string         `json:"reason"`
}

// ProductGetter looks up live product data. Satisfied by catalog.Client.
type ProductGetter interface {
	GetProduct(ctx context.Context, productID string) (*catalog.Product, error)
}

// CartService implements the business logic for cart operations. Mutations
// use optimistic locking; a version conflict surfaces to the caller as
// apperrors.ErrConflict so the client can re-read and retry.
type CartService struct {
	repo     repository.CartRepository
	catalog  ProductGetter
	producer *event.Producer
	logger   *slog.Logger
	currency string
}

// NewCartService creates a cart service. catalog may be nil, in which case
// stock ceilings are not enforced.
func NewCartService(repo repository.CartRepository, catalog ProductGetter, producer *event.Producer, logger *slog.Logger, currency string) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
		currency: currency,
	}
}

// GetCart retrieves the cart for a user. A user with no stored cart gets an
// empty one; totals are derived on the way out, never stored.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(userID, s.currency), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddItem adds a product variant to the user's cart. A line already holding
// the same product and variant selection is merged by summing quantities,
// keeping the existing snapshot. The resulting quantity is clamped to the
// per-item cap and, when the catalog is reachable, to available stock; a
// clamp is reported through the returned adjustment.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddItemInput) (*domain.Cart, *QuantityAdjustment, error) {
	if userID == "" {
		return nil, nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID == "" {
		return nil, nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.Price < 0 || input.CompareAtPrice < 0 {
		return nil, nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Price > MaxPriceCents {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("price must not exceed %d cents", MaxPriceCents))
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	expectedVersion := cart.Version

	idx := cart.FindItem(input.ProductID, input.Variant)
	current := 0
	if idx >= 0 {
		current = cart.Items[idx].Quantity
	} else if len(cart.Items) >= domain.MaxItemsPerCart {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", domain.MaxItemsPerCart))
	}

	requested := current + input.Quantity
	applied, reason := s.clampQuantity(ctx, input.ProductID, requested)
	if applied <= 0 {
		return nil, nil, apperrors.InvalidInput("product is out of stock")
	}

	if idx >= 0 {
		// Merge keeps the original snapshot; only the quantity moves.
		cart.Items[idx].Quantity = applied
	} else {
		pricing := domain.NormalizePrice(input.Price, input.CompareAtPrice)
		cart.Items = append(cart.Items, domain.LineItem{
			ProductID:     input.ProductID,
			Name:          input.Name,
			Brand:         input.Brand,
			ImageURL:      input.ImageURL,
			Price:         pricing.Effective,
			OriginalPrice: pricing.Reference,
			Discount:      pricing.Discount,
			Quantity:      applied,
			Variant:       input.Variant.Clone(),
		})
	}

	if err := s.repo.SaveIfVersion(ctx, cart, expectedVersion); err != nil {
		return nil, nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.String("product_id", input.ProductID),
		slog.String("variant", input.Variant.Key()),
		slog.Int("quantity", applied),
	)

	return cart, adjustment(input.ProductID, input.Variant, requested, applied, reason), nil
}

// UpdateItemQuantity sets the absolute quantity of an existing line. A
// quantity of zero or less removes the line. Quantities above available
// stock or the per-item cap are clamped and reported through the returned
// adjustment.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID string, input UpdateQuantityInput) (*domain.Cart, *QuantityAdjustment, error) {
	if userID == "" {
		return nil, nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID == "" {
		return nil, nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get cart for update: %w", err)
	}

	expectedVersion := cart.Version

	idx := cart.FindItem(input.ProductID, input.Variant)
	if idx < 0 {
		return nil, nil, apperrors.NotFound("cart item", input.ProductID)
	}

	var adj *QuantityAdjustment
	if input.Quantity <= 0 {
		cart.RemoveItem(input.ProductID, input.Variant)
	} else {
		applied, reason := s.clampQuantity(ctx, input.ProductID, input.Quantity)
		if applied <= 0 {
			cart.RemoveItem(input.ProductID, input.Variant)
		} else {
			cart.Items[idx].Quantity = applied
		}
		adj = adjustment(input.ProductID, input.Variant, input.Quantity, applied, reason)
	}

	if err := s.repo.SaveIfVersion(ctx, cart, expectedVersion); err != nil {
		return nil, nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("user_id", userID),
		slog.String("product_id", input.ProductID),
		slog.String("variant", input.Variant.Key()),
		slog.Int("quantity", input.Quantity),
	)

	return cart, adj, nil
}

// RemoveItem removes a line from the cart. Removal is idempotent: a missing
// line, or a missing cart, returns the current (possibly empty) cart without
// error, and nothing is written or published.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string, variant domain.Variant) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(userID, s.currency), nil
		}
		return nil, fmt.Errorf("get cart for remove: %w", err)
	}

	expectedVersion := cart.Version

	if !cart.RemoveItem(productID, variant) {
		return cart, nil
	}

	if err := s.repo.SaveIfVersion(ctx, cart, expectedVersion); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.String("variant", variant.Key()),
	)

	return cart, nil
}

// ClearCart removes the user's stored cart entirely and returns the
// resulting empty cart. Clearing an absent cart succeeds.
func (s *CartService) ClearCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", userID))

	return domain.NewCart(userID, s.currency), nil
}

// clampQuantity applies the per-item cap and, when the catalog answers, the
// stock ceiling. Catalog failures never block the mutation: the ceiling is
// skipped and the outage logged.
func (s *CartService) clampQuantity(ctx context.Context, productID string, requested int) (int, string) {
	applied, reason := requested, ""
	if applied > domain.MaxQuantityPerItem {
		applied, reason = domain.MaxQuantityPerItem, ReasonMaxQuantity
	}

	if s.catalog == nil {
		return applied, reason
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog lookup failed, skipping stock ceiling",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		return applied, reason
	}

	if product.Stock >= 0 && applied > product.Stock {
		applied, reason = product.Stock, ReasonInsufficientStock
	}
	return applied, reason
}

func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) getOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(userID, s.currency), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func adjustment(productID string, variant domain.Variant, requested, applied int, reason string) *QuantityAdjustment {
	if requested == applied || reason == "" {
		return nil
	}
	return &QuantityAdjustment{
		ProductID: productID,
		Variant:   variant,
		Requested: requested,
		Applied:   applied,
		Reason:    reason,
	}
}
