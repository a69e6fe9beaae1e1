package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	apperrors "github.com/velora/storefront-cart/pkg/errors"
)

// Product is the catalog service's view of a purchasable product. Prices
// are integer minor units; CompareAtPrice is zero when the product has no
// strike-through price. Stock of -1 means the catalog does not track
// availability for the product.
type Product struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	ImageURL       string `json:"image_url"`
	Price          int64  `json:"price"`
	CompareAtPrice int64  `json:"compare_at_price"`
	Currency       string `json:"currency"`
	Stock          int    `json:"stock"`
	Active         bool   `json:"active"`
}

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client fetches products from the catalog service.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client against baseURL.
func NewClient(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{http: httpClient, baseURL: baseURL, logger: logger}
}

type productEnvelope struct {
	Data Product `json:"data"`
}

// GetProduct fetches a product by ID. An unknown or inactive product is a
// wrapped apperrors.ErrNotFound; catalog outages surface as
// apperrors.ErrServiceUnavail.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	reqURL := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create product request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call catalog: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NotFound("product", productID)
	case resp.StatusCode >= 500:
		return nil, apperrors.Unavailable("catalog service is unavailable")
	default:
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var envelope productEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode product response: %w", err)
	}

	product := envelope.Data
	if !product.Active {
		return nil, apperrors.NotFound("product", productID)
	}

	return &product, nil
}
