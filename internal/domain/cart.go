package domain

import "time"

// Limits mirrored by request validation at the edge.
const (
	MaxQuantityPerItem = 100
	MaxItemsPerCart    = 50
)

// LineItem is one product variant in a cart, carrying a snapshot of catalog
// data taken when the item was first added. Prices are integer minor units.
type LineItem struct {
	ProductID     string  `json:"productId" bson:"product_id"`
	Name          string  `json:"name" bson:"name"`
	Brand         string  `json:"brand,omitempty" bson:"brand,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Price         int64   `json:"price" bson:"price"`
	OriginalPrice int64   `json:"originalPrice,omitempty" bson:"original_price,omitempty"`
	Discount      int     `json:"discount,omitempty" bson:"discount,omitempty"`
	Quantity      int     `json:"quantity" bson:"quantity"`
	Variant       Variant `json:"variant,omitempty" bson:"variant,omitempty"`
}

// Subtotal returns price times quantity for this line.
func (li LineItem) Subtotal() int64 {
	return li.Price * int64(li.Quantity)
}

// Cart is the per-user aggregate. Version supports optimistic concurrency:
// it starts at zero for a cart that has never been persisted and the store
// bumps it on every successful write.
type Cart struct {
	ID        string     `json:"id" bson:"_id"`
	UserID    string     `json:"userId" bson:"user_id"`
	Items     []LineItem `json:"items" bson:"items"`
	Currency  string     `json:"currency" bson:"currency"`
	Version   int64      `json:"version" bson:"version"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updated_at"`
}

// NewCart returns an empty, never-persisted cart for the user.
func NewCart(userID, currency string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:    userID,
		Items:     []LineItem{},
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TotalItems is the sum of line quantities, derived on read and never stored.
func (c *Cart) TotalItems() int {
	total := 0
	for _, li := range c.Items {
		total += li.Quantity
	}
	return total
}

// TotalPrice is the sum of line subtotals in minor units.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, li := range c.Items {
		total += li.Subtotal()
	}
	return total
}

// FindItem returns the index of the line matching the product and variant
// selection, or -1. Matching uses structural variant equality, so an empty
// selection only matches the base-product line.
func (c *Cart) FindItem(productID string, variant Variant) int {
	for i, li := range c.Items {
		if li.ProductID == productID && li.Variant.Equal(variant) {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// UpsertItem merges the item into an existing matching line by summing
// quantities, or appends a new line. On merge the existing snapshot (name,
// prices, image) is kept; only the quantity changes. The merged quantity is
// capped at MaxQuantityPerItem. Returns the resulting line quantity.
func (c *Cart) UpsertItem(item LineItem) int {
	if idx := c.FindItem(item.ProductID, item.Variant); idx >= 0 {
		q := c.Items[idx].Quantity + item.Quantity
		if q > MaxQuantityPerItem {
			q = MaxQuantityPerItem
		}
		c.Items[idx].Quantity = q
		return q
	}

	if item.Quantity > MaxQuantityPerItem {
		item.Quantity = MaxQuantityPerItem
	}
	item.Variant = item.Variant.Clone()
	c.Items = append(c.Items, item)
	return item.Quantity
}

// RemoveItem deletes the matching line. It is a no-op when no line matches
// and reports whether anything was removed.
func (c *Cart) RemoveItem(productID string, variant Variant) bool {
	idx := c.FindItem(productID, variant)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return true
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}
