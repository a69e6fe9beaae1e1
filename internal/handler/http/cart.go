package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/velora/storefront-cart/pkg/errors"
	"github.com/velora/storefront-cart/pkg/httputil"
	"github.com/velora/storefront-cart/pkg/validator"

	"github.com/velora/storefront-cart/internal/domain"
	"github.com/velora/storefront-cart/internal/service"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// AddItemRequest is the JSON body for adding an item. Quantity defaults to 1
// when absent; an explicit zero or negative quantity is rejected.
type AddItemRequest struct {
	ProductID      string            `json:"productId" validate:"required"`
	Name           string            `json:"name" validate:"required,min=1,max=500"`
	Brand          string            `json:"brand" validate:"max=200"`
	ImageURL       string            `json:"imageUrl" validate:"omitempty,url"`
	Price          int64             `json:"price" validate:"gte=0"`
	CompareAtPrice int64             `json:"compareAtPrice" validate:"gte=0"`
	Quantity       *int              `json:"quantity"`
	Variant        map[string]string `json:"variant"`
}

// UpdateQuantityRequest is the JSON body for setting a line's quantity. The
// variant selection identifies the line together with the productId path
// segment. Zero or negative removes the line.
type UpdateQuantityRequest struct {
	Quantity *int              `json:"quantity" validate:"required"`
	Variant  map[string]string `json:"variant"`
}

// RemoveItemRequest is the optional JSON body for removing a line. An empty
// body targets the base-product line with no variant selection.
type RemoveItemRequest struct {
	Variant map[string]string `json:"variant"`
}

// --- Response view ---

// CartView is the cart snapshot returned by every endpoint, with totals
// derived on the way out and an adjustment when a quantity was clamped.
type CartView struct {
	*domain.Cart
	TotalItems int                         `json:"totalItems"`
	TotalPrice int64                       `json:"totalPrice"`
	Adjustment *service.QuantityAdjustment `json:"quantityAdjustment,omitempty"`
}

func newCartView(cart *domain.Cart, adj *service.QuantityAdjustment) CartView {
	return CartView{
		Cart:       cart,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
		Adjustment: adj,
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart, nil)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	input := service.AddItemInput{
		ProductID:      req.ProductID,
		Name:           req.Name,
		Brand:          req.Brand,
		ImageURL:       req.ImageURL,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Quantity:       quantity,
		Variant:        domain.Variant(req.Variant),
	}

	cart, adj, err := h.service.AddItem(r.Context(), userID, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart, adj)})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	productID := chi.URLParam(r, "productId")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, adj, err := h.service.UpdateItemQuantity(r.Context(), userID, service.UpdateQuantityInput{
		ProductID: productID,
		Variant:   domain.Variant(req.Variant),
		Quantity:  *req.Quantity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart, adj)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	productID := chi.URLParam(r, "productId")

	// The body is optional: no body means the base-product line.
	var req RemoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), userID, productID, domain.Variant(req.Variant))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart, nil)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	cart, err := h.service.ClearCart(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart, nil)})
}

func (h *CartHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteError(w, r, err, h.logger)
}
