package model

import "fmt"

// ResolutionState tags how a candidate relates to the master catalog.
type ResolutionState string

// Resolution states.
const (
	// ResolutionUnresolved means no product match was found and the user has
	// not chosen to create one; the candidate cannot be committed yet.
	ResolutionUnresolved ResolutionState = "unresolved"
	// ResolutionMatched means the candidate points at an existing product.
	ResolutionMatched ResolutionState = "matched"
	// ResolutionPendingCreate means no match exists and the product will be
	// created under the supplier at commit time.
	ResolutionPendingCreate ResolutionState = "pending_create"
)

// Resolution is the tagged variant describing a candidate's link to master
// data. Product is set only in the matched state; TradingUnit may be set in
// any state once a supplier has been resolved or hand-picked.
type Resolution struct {
	State       ResolutionState
	Product     *Product
	TradingUnit *TradingUnit
}

// FieldError is a single business-rule violation on a candidate field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CandidateRecord is an import row augmented with resolution and validation
// state. The editable fields start as copies of the row values; every user
// edit re-resolves and re-validates the record, so Errors and Valid always
// describe the current field values.
type CandidateRecord struct {
	Row ImportRow

	Name         string
	Unit         string
	SupplierName string
	SellPrice    float64
	CostPrice    float64
	Quantity     float64

	Resolution Resolution
	Errors     []FieldError
	Valid      bool
}

// NewCandidate seeds a candidate from a parsed row.
func NewCandidate(row ImportRow) CandidateRecord {
	return CandidateRecord{
		Row:          row,
		Name:         row.Name,
		Unit:         row.Unit,
		SupplierName: row.SupplierName,
		SellPrice:    row.SellPrice,
		CostPrice:    row.CostPrice,
		Quantity:     row.Quantity,
		Resolution:   Resolution{State: ResolutionUnresolved},
	}
}

// ErrorStrings renders the accumulated violations for display, each prefixed
// with the source row number.
func (c *CandidateRecord) ErrorStrings() []string {
	out := make([]string, len(c.Errors))
	for i, e := range c.Errors {
		out[i] = fmt.Sprintf("row %d: %s", c.Row.RowIndex, e.Error())
	}
	return out
}
