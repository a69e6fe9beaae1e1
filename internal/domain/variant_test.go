package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantEqual_NilAndEmptyMatch(t *testing.T) {
	var nilVariant Variant
	empty := Variant{}

	assert.True(t, nilVariant.Equal(empty))
	assert.True(t, empty.Equal(nilVariant))
	assert.True(t, nilVariant.Equal(nil))
}

func TestVariantEqual_SameAttributes(t *testing.T) {
	a := Variant{"color": "red", "size": "L"}
	b := Variant{"size": "L", "color": "red"}

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestVariantEqual_DifferentValues(t *testing.T) {
	a := Variant{"color": "red"}
	b := Variant{"color": "blue"}

	assert.False(t, a.Equal(b))
}

func TestVariantEqual_CaseSensitive(t *testing.T) {
	a := Variant{"color": "Red"}
	b := Variant{"color": "red"}

	assert.False(t, a.Equal(b))
}

func TestVariantEqual_PartialSelectionIsDistinct(t *testing.T) {
	colorOnly := Variant{"color": "red"}
	colorAndSize := Variant{"color": "red", "size": "L"}

	assert.False(t, colorOnly.Equal(colorAndSize))
	assert.False(t, colorAndSize.Equal(colorOnly))
}

func TestVariantEqual_EmptyVsNonEmpty(t *testing.T) {
	assert.False(t, Variant{}.Equal(Variant{"color": "red"}))
	assert.False(t, Variant{"color": "red"}.Equal(nil))
}

func TestVariantKey_SortedAndStable(t *testing.T) {
	a := Variant{"size": "L", "color": "red"}
	b := Variant{"color": "red", "size": "L"}

	assert.Equal(t, "color=red|size=L", a.Key())
	assert.Equal(t, a.Key(), b.Key())
}

func TestVariantKey_Empty(t *testing.T) {
	var nilVariant Variant
	assert.Equal(t, "", nilVariant.Key())
	assert.Equal(t, "", Variant{}.Key())
}

func TestVariantClone_Independent(t *testing.T) {
	orig := Variant{"color": "red"}
	cp := orig.Clone()

	cp["color"] = "blue"
	assert.Equal(t, "red", orig["color"])
}

func TestVariantClone_EmptyIsNil(t *testing.T) {
	assert.Nil(t, Variant{}.Clone())
	assert.Nil(t, Variant(nil).Clone())
}
