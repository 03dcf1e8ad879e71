package model

import "strings"

// ImportRow is one parsed spreadsheet record before any resolution has
// happened. Fields hold the raw values as the normalizer extracted them.
// RowIndex is the 1-based index in the source sheet, kept so user-facing
// errors can reference the original row.
type ImportRow struct {
	RowIndex     int
	Name         string
	Unit         string
	SupplierName string
	SellPrice    float64
	CostPrice    float64
	Quantity     float64
}

// IsBlank reports whether the row carries no usable data at all. Entirely
// blank rows are dropped by the normalizer rather than producing candidates.
func (r ImportRow) IsBlank() bool {
	return strings.TrimSpace(r.Name) == "" &&
		strings.TrimSpace(r.Unit) == "" &&
		strings.TrimSpace(r.SupplierName) == "" &&
		r.SellPrice == 0 && r.CostPrice == 0 && r.Quantity == 0
}
