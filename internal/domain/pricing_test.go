package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice_NoCompareAt(t *testing.T) {
	p := NormalizePrice(1999, 0)

	assert.Equal(t, int64(1999), p.Effective)
	assert.Equal(t, int64(0), p.Reference)
	assert.Equal(t, 0, p.Discount)
}

func TestNormalizePrice_CompareAtHigher(t *testing.T) {
	p := NormalizePrice(10000, 15000)

	assert.Equal(t, int64(10000), p.Effective)
	assert.Equal(t, int64(15000), p.Reference)
	assert.Equal(t, 33, p.Discount)
}

func TestNormalizePrice_SwappedFeed(t *testing.T) {
	// Some feeds put the sale amount in the compare-at field. The lower
	// amount always wins as the charged price.
	p := NormalizePrice(15000, 10000)

	assert.Equal(t, int64(10000), p.Effective)
	assert.Equal(t, int64(15000), p.Reference)
	assert.Equal(t, 33, p.Discount)
}

func TestNormalizePrice_EqualAmountsMeanNoMarkdown(t *testing.T) {
	p := NormalizePrice(5000, 5000)

	assert.Equal(t, int64(5000), p.Effective)
	assert.Equal(t, int64(0), p.Reference)
	assert.Equal(t, 0, p.Discount)
}

func TestNormalizePrice_DiscountRounding(t *testing.T) {
	tests := []struct {
		name      string
		price     int64
		compareAt int64
		discount  int
	}{
		{"half rounds up", 8750, 10000, 13},  // 12.5%
		{"rounds down", 8760, 10000, 12},     // 12.4%
		{"full markdown", 0, 10000, 100},     // free item on sale
		{"tiny markdown", 9999, 10000, 0},    // 0.01%
		{"half price", 5000, 10000, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NormalizePrice(tt.price, tt.compareAt)
			assert.Equal(t, tt.discount, p.Discount)
		})
	}
}

func TestNormalizePrice_NegativeCompareAtIgnored(t *testing.T) {
	p := NormalizePrice(2500, -100)

	assert.Equal(t, int64(2500), p.Effective)
	assert.Equal(t, int64(0), p.Reference)
	assert.Equal(t, 0, p.Discount)
}
