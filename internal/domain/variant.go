package domain

import (
	"sort"
	"strings"
)

// Variant is an open attribute selection distinguishing purchasable units of
// the same base product, e.g. {"color": "red", "size": "L"}. The attribute
// set is unbounded; a nil or empty map means the base product with no
// selection.
type Variant map[string]string

// Equal reports whether two selections identify the same purchasable unit:
// the same attribute names with the same values, compared case-sensitively.
// Key order never matters, and a nil map equals an empty one. A partial
// selection (color only) never equals a fuller one (color and size);
// missing attributes are not inferred.
func (v Variant) Equal(other Variant) bool {
	if len(v) != len(other) {
		return false
	}
	for name, value := range v {
		if got, ok := other[name]; !ok || got != value {
			return false
		}
	}
	return true
}

// Key returns a canonical string form with attributes sorted by name, e.g.
// "color=red|size=L". Empty selections yield "". Used for logging and
// deterministic identity; equality checks go through Equal.
func (v Variant) Key() string {
	if len(v) == 0 {
		return ""
	}

	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(v[name])
	}
	return b.String()
}

// Clone returns an independent copy so stored line items never alias
// request maps. Returns nil for empty selections.
func (v Variant) Clone() Variant {
	if len(v) == 0 {
		return nil
	}
	cp := make(Variant, len(v))
	for name, value := range v {
		cp[name] = value
	}
	return cp
}
