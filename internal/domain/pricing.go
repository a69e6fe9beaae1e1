package domain

import "math"

// Pricing is a catalog price pair normalized for display and charging.
// Amounts are integer minor units (cents).
type Pricing struct {
	// Effective is the amount the customer pays.
	Effective int64
	// Reference is the strike-through compare-at amount. Zero when the
	// product has no markdown.
	Reference int64
	// Discount is the markdown percentage rounded half away from zero.
	// Zero when there is no markdown.
	Discount int
}

// NormalizePrice reconciles a product's price with its optional compare-at
// price. Catalog feeds disagree on which field carries the sale amount, so
// the lower of the two is always treated as effective and the higher as the
// reference. A compareAt of zero (or less) means no markdown, as does a
// compare-at equal to the price.
func NormalizePrice(price, compareAt int64) Pricing {
	if compareAt <= 0 || compareAt == price {
		return Pricing{Effective: price}
	}

	effective, reference := price, compareAt
	if compareAt < price {
		effective, reference = compareAt, price
	}

	return Pricing{
		Effective: effective,
		Reference: reference,
		Discount:  int(math.Round(100 * float64(reference-effective) / float64(reference))),
	}
}
