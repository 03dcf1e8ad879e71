// Package schema maps loosely-structured spreadsheet grids onto the
// canonical import field set. Human-entered headers arrive in many spellings
// and languages, so every header is normalized and looked up against a fixed
// alias table; unrecognized columns pass through unmapped and are ignored.
package schema

import (
	"strings"
)

// Field identifies one canonical import column.
type Field string

// Canonical fields recognized by the normalizer.
const (
	FieldName         Field = "name"
	FieldUnit         Field = "unit"
	FieldSellPrice    Field = "sell_price"
	FieldCostPrice    Field = "cost_price"
	FieldSupplierName Field = "supplier_name"
	FieldQuantity     Field = "quantity"
)

// headerAliases maps normalized header text to canonical fields. Lookup is
// case-insensitive on trimmed, space-collapsed text.
var headerAliases = map[string]Field{
	// Name
	"name":        FieldName,
	"item":        FieldName,
	"item name":   FieldName,
	"product":     FieldName,
	"nama":        FieldName,
	"nama barang": FieldName,
	"barang":      FieldName,

	// Unit
	"unit":   FieldUnit,
	"uom":    FieldUnit,
	"satuan": FieldUnit,

	// Sell price
	"sell price":    FieldSellPrice,
	"selling price": FieldSellPrice,
	"price":         FieldSellPrice,
	"harga jual":    FieldSellPrice,
	"jual":          FieldSellPrice,

	// Cost price
	"cost":         FieldCostPrice,
	"buying price": FieldCostPrice,
	"harga modal":  FieldCostPrice,
	"modal":        FieldCostPrice,
	"harga beli":   FieldCostPrice,

	// Supplier
	"supplier":     FieldSupplierName,
	"trading unit": FieldSupplierName,
	"ud":           FieldSupplierName,
	"unit dagang":  FieldSupplierName,

	// Quantity
	"qty":      FieldQuantity,
	"quantity": FieldQuantity,
	"amount":   FieldQuantity,
	"jumlah":   FieldQuantity,
}

// nameMarkers are substrings that flag a cell as a plausible Name header even
// when the full text is not in the alias table (e.g. "Nama Barang (wajib)").
var nameMarkers = []string{"nama", "name", "barang", "item"}

// NormalizeHeader maps a raw header cell to its canonical field. The second
// return value reports whether the header was recognized.
func NormalizeHeader(cell string) (Field, bool) {
	f, ok := headerAliases[normalize(cell)]
	return f, ok
}

// normalize lowercases, trims, and collapses internal whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// isNameHeader reports whether a cell identifies the Name column, either by
// alias or by containing a known marker substring.
func isNameHeader(cell string) bool {
	norm := normalize(cell)
	if f, ok := headerAliases[norm]; ok && f == FieldName {
		return true
	}
	for _, marker := range nameMarkers {
		if strings.Contains(norm, marker) {
			return true
		}
	}
	return false
}
