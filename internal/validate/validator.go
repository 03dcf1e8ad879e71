// Package validate applies the business rules a candidate record must pass
// before it can be committed. Every rule is evaluated on every call so the
// user sees the complete violation list at once, and validation is pure with
// respect to the current field values: re-running it on an unchanged record
// yields identical results.
package validate

import (
	"strings"

	"github.com/nursyahid/dapur-ledger/internal/model"
)

// MinQuantity is the sentinel a non-positive quantity is clamped to when the
// user leaves a quantity field, instead of rejecting the edit outright.
const MinQuantity = 0.01

// Options select which rule set applies to the candidate.
type Options struct {
	// RequireSupplier forces the supplier-resolved rule even when the row
	// itself carried no supplier name (e.g. a transaction entry workflow
	// where every line needs an owning trading unit).
	RequireSupplier bool
	// TransactionLine enables the quantity rule, which only applies when
	// building transaction lines as opposed to a catalog-only import.
	TransactionLine bool
}

// Validate returns every rule the candidate currently violates. It never
// short-circuits on the first failure.
func Validate(c *model.CandidateRecord, opts Options) []model.FieldError {
	var errs []model.FieldError

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, model.FieldError{Field: "name", Message: "name must not be empty"})
	}

	if c.SellPrice <= 0 {
		errs = append(errs, model.FieldError{Field: "sell_price", Message: "sell price must be greater than zero"})
	}
	// Cost price intentionally has no positivity rule: free or unknown-cost
	// items are recorded with modal 0.

	supplierNamed := strings.TrimSpace(c.SupplierName) != ""
	if (opts.RequireSupplier || supplierNamed) && c.Resolution.TradingUnit == nil {
		errs = append(errs, model.FieldError{Field: "supplier", Message: "supplier could not be resolved, pick one manually"})
	}

	if opts.TransactionLine && c.Quantity <= 0 {
		errs = append(errs, model.FieldError{Field: "quantity", Message: "quantity must be greater than zero"})
	}

	return errs
}

// Apply runs Validate and stores the result on the candidate.
func Apply(c *model.CandidateRecord, opts Options) {
	c.Errors = Validate(c, opts)
	c.Valid = len(c.Errors) == 0
}

// ClampQuantity coerces a non-positive quantity to the minimum sentinel.
func ClampQuantity(q float64) float64 {
	if q <= 0 {
		return MinQuantity
	}
	return q
}
